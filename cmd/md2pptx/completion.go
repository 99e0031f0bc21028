package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	md2pptx "github.com/alnah/go-md2pptx"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string // empty if none
	Type     flagType
	Desc     string
	Values   []string // enum values
	FileGlob string   // comma-separated globs
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	FilePattern string // comma-separated globs for positional files
}

// completionMeta holds the completion hints a FlagSet cannot express.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion hints. Theme
// names come from the embedded themes.
func flagCompletionMeta() map[string]completionMeta {
	return map[string]completionMeta{
		"theme":      {Values: md2pptx.ListThemes()},
		"config":     {FileGlob: "*.yaml,*.yml"},
		"logo":       {FileGlob: "*.png,*.jpg,*.jpeg,*.gif,*.bmp,*.tif,*.tiff"},
		"output":     {IsDir: true},
		"asset-path": {IsDir: true},
	}
}

// extractFlags turns a FlagSet into completion definitions.
func extractFlags(fs *flag.FlagSet) []flagDef {
	meta := flagCompletionMeta()
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if m, ok := meta[f.Name]; ok {
			switch {
			case len(m.Values) > 0:
				fd.Type, fd.Values = flagEnum, m.Values
			case m.FileGlob != "":
				fd.Type, fd.FileGlob = flagFile, m.FileGlob
			case m.IsDir:
				fd.Type = flagDir
			}
		}
		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the registration the commands parse with.
func getCommands() []commandDef {
	convertFS := flag.NewFlagSet(cmdConvert, flag.ContinueOnError)
	registerConvertFlags(convertFS, &convertFlags{})
	serveFS := flag.NewFlagSet(cmdServe, flag.ContinueOnError)
	registerServeFlags(serveFS, &serveFlags{})

	return []commandDef{
		{Name: cmdConvert, Desc: "Compile markdown files to PowerPoint decks", Flags: extractFlags(convertFS), FilePattern: "*.md,*.markdown"},
		{Name: cmdServe, Desc: "Run the generate_deck tool server on stdio", Flags: extractFlags(serveFS)},
		{Name: cmdThemes, Desc: "List built-in themes"},
		{Name: cmdDoctor, Desc: "Check themes, config and environment"},
		{Name: cmdCompletion, Desc: "Generate shell completion script"},
		{Name: cmdVersion, Desc: "Show version information"},
		{Name: cmdHelp, Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes a shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = bashScript(getCommands())
	case ShellZsh:
		script = zshScript(getCommands())
	case ShellFish:
		script = fishScript(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2pptx completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(md2pptx completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(md2pptx completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    md2pptx completion fish > ~/.config/fish/completions/md2pptx.fish")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func bashScript(cmds []commandDef) string {
	var b strings.Builder
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}

	b.WriteString("# bash completion for md2pptx\n")
	b.WriteString("_md2pptx_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")

	fmt.Fprintf(&b, "    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\") %s)\n", strings.Join(names, " "), bashFiles("*.md,*.markdown"))
	b.WriteString("        return\n    fi\n\n")

	// Flag values, shared by every command.
	b.WriteString("    case \"$prev\" in\n")
	seen := make(map[string]bool)
	for _, c := range cmds {
		for _, f := range c.Flags {
			if seen[f.Long] || f.Type == flagBool {
				continue
			}
			seen[f.Long] = true
			fmt.Fprintf(&b, "        %s)\n            COMPREPLY=(%s)\n            return ;;\n", bashFlagNames(f), bashValues(f))
		}
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && c.FilePattern == "" {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		fmt.Fprintf(&b, "            if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(flagWords(c.Flags), " "))
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "            else\n                COMPREPLY=(%s)\n", bashFiles(c.FilePattern))
		}
		b.WriteString("            fi ;;\n")
	}
	b.WriteString("        help)\n")
	fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\")) ;;\n", strings.Join(names, " "))
	b.WriteString("        completion)\n")
	b.WriteString("            COMPREPLY=($(compgen -W \"bash zsh fish\" -- \"$cur\")) ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _md2pptx_completions md2pptx\n")
	return b.String()
}

func bashFlagNames(f flagDef) string {
	if f.Short != "" {
		return "-" + f.Short + "|--" + f.Long
	}
	return "--" + f.Long
}

func bashValues(f flagDef) string {
	switch f.Type {
	case flagEnum:
		return fmt.Sprintf("$(compgen -W %q -- \"$cur\")", strings.Join(f.Values, " "))
	case flagFile:
		return bashFiles(f.FileGlob) + " $(compgen -d -- \"$cur\")"
	case flagDir:
		return "$(compgen -d -- \"$cur\")"
	default:
		return ""
	}
}

func bashFiles(globs string) string {
	var parts []string
	for _, g := range strings.Split(globs, ",") {
		parts = append(parts, fmt.Sprintf("$(compgen -f -X '!%s' -- \"$cur\")", g))
	}
	return strings.Join(parts, " ")
}

func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func zshScript(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef md2pptx\n\n")
	b.WriteString("_md2pptx() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        _files -g '*.md *.markdown'\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"${words[2]}\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && c.FilePattern == "" {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            _arguments")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, " \\\n                %s", zshArg(f))
		}
		if c.FilePattern != "" {
			fmt.Fprintf(&b, " \\\n                '*:file:_files -g \"%s\"'", strings.ReplaceAll(c.FilePattern, ",", " "))
		}
		b.WriteString("\n            ;;\n")
	}
	b.WriteString("        completion)\n")
	b.WriteString("            _values 'shell' bash zsh fish\n")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _md2pptx md2pptx\n")
	return b.String()
}

func zshArg(f flagDef) string {
	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(":%s:_files -g \"%s\"", f.Long, strings.ReplaceAll(f.FileGlob, ",", " "))
	case flagDir:
		action = fmt.Sprintf(":%s:_files -/", f.Long)
	default:
		action = fmt.Sprintf(":%s: ", f.Long)
	}

	desc := "[" + zshEscape(f.Desc) + "]"
	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
	}
	return fmt.Sprintf("'--%s%s%s'", f.Long, desc, action)
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func fishScript(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for md2pptx\n\n")
	b.WriteString("function __fish_md2pptx_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_md2pptx_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test \"$cmd[2]\" = \"$argv[1]\"\n")
	b.WriteString("end\n\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c md2pptx -f -n __fish_md2pptx_needs_command -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}
	b.WriteString("\n")

	for _, c := range cmds {
		cond := fishQuote("__fish_md2pptx_using_command " + c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c md2pptx -n %s", cond)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long + " -d " + fishQuote(f.Desc)
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += " -x -a " + fishQuote(strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -x"
			}
			b.WriteString(line + "\n")
		}
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "complete -c md2pptx -n %s -F\n", cond)
		}
	}
	fmt.Fprintf(&b, "complete -c md2pptx -f -n %s -a 'bash zsh fish'\n", fishQuote("__fish_md2pptx_using_command "+cmdCompletion))
	return b.String()
}

func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
