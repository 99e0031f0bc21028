package main

import (
	"fmt"
	"io"

	md2pptx "github.com/alnah/go-md2pptx"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2pptx [command] [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Compile markdown files to PowerPoint decks (default)")
	fmt.Fprintln(w, "  serve      Run the generate_deck tool server on stdio")
	fmt.Fprintln(w, "  themes     List built-in themes")
	fmt.Fprintln(w, "  doctor     Check themes, config and environment")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2pptx help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2pptx convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile markdown files to PowerPoint decks. Each '## ' header starts a")
	fmt.Fprintln(w, "slide; '## [type] Title' selects the slide type.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output .pptx file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-deck timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Theme:")
	fmt.Fprintln(w, "      --theme <name|path>   Theme name or YAML file")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory whose themes/ override built-ins")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Deck:")
	fmt.Fprintln(w, "      --institution <s>     Institution on title and closing slides")
	fmt.Fprintln(w, "      --instructor <s>      Instructor on the closing slide")
	fmt.Fprintln(w, "      --logo <path>         Logo placed on every slide")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "      --preview             Write an HTML preview next to each deck")
	fmt.Fprintln(w, "      --fix-zip             Rewrite the archive for strict readers")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2PPTX_CONFIG, MD2PPTX_THEME, MD2PPTX_ASSET_PATH, MD2PPTX_TIMEOUT,")
	fmt.Fprintln(w, "  MD2PPTX_INPUT_DIR, MD2PPTX_OUTPUT_DIR, MD2PPTX_WORKERS,")
	fmt.Fprintln(w, "  MD2PPTX_INSTITUTION, MD2PPTX_INSTRUCTOR, MD2PPTX_LOGO, MD2PPTX_LOG_LEVEL")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2pptx serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the generate_deck and list_themes tools over stdio.")
	fmt.Fprintln(w, "Logs go to stderr; stdout carries the protocol.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --theme <name|path>   Theme name or YAML file")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory whose themes/ override built-ins")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// runThemes lists the built-in themes, one per line.
func runThemes(env *Environment) {
	for _, name := range md2pptx.ListThemes() {
		fmt.Fprintln(env.Stdout, name)
	}
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case cmdConvert:
		printConvertUsage(env.Stdout)
	case cmdServe:
		printServeUsage(env.Stdout)
	case cmdThemes:
		fmt.Fprintln(env.Stdout, "Usage: md2pptx themes")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List built-in themes.")
	case cmdDoctor:
		fmt.Fprintln(env.Stdout, "Usage: md2pptx doctor [--json] [-c <config>]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Load every theme and the config, and check that decks can be written.")
		fmt.Fprintln(env.Stdout, "Exits 1 when an error is found.")
	case cmdCompletion:
		printCompletionUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: md2pptx version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: md2pptx help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
