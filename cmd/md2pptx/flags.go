package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// deckFlags holds flags overriding the theme's deck-level values.
type deckFlags struct {
	institution string
	instructor  string
	logo        string
}

// assetFlags holds theme selection flags.
type assetFlags struct {
	theme     string // Theme name or path to a theme file
	assetPath string // Directory whose themes/ shadow the built-in ones
}

// outputFlags holds output mode flags.
type outputFlags struct {
	preview bool // Write an HTML preview next to each deck
	fixZip  bool // Rewrite the package without data descriptors
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	workers    int
	timeout    string
	deck       deckFlags
	assets     assetFlags
	outputMode outputFlags
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common commonFlags
	assets assetFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addDeckFlags adds deck override flags to a FlagSet.
func addDeckFlags(fs *flag.FlagSet, f *deckFlags) {
	fs.StringVar(&f.institution, "institution", "", "institution shown on title and closing slides")
	fs.StringVar(&f.instructor, "instructor", "", "instructor shown on the closing slide")
	fs.StringVar(&f.logo, "logo", "", "logo image placed on every slide")
}

// addAssetFlags adds theme selection flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.theme, "theme", "", "theme name or YAML file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.preview, "preview", false, "write an HTML preview alongside each deck")
	fs.BoolVar(&f.fixZip, "fix-zip", false, "rewrite the archive for strict readers")
}

// registerConvertFlags adds every convert flag to fs. Completion scripts
// are generated from the same registration.
func registerConvertFlags(fs *flag.FlagSet, f *convertFlags) {
	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-deck timeout (e.g., 30s, 2m)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addDeckFlags(fs, &f.deck)
	addAssetFlags(fs, &f.assets)
	addOutputFlags(fs, &f.outputMode)
}

// registerServeFlags adds every serve flag to fs.
func registerServeFlags(fs *flag.FlagSet, f *serveFlags) {
	addCommonFlags(fs, &f.common)
	addAssetFlags(fs, &f.assets)
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet(cmdConvert, flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &convertFlags{}
	registerConvertFlags(fs, f)

	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, usage io.Writer) (*serveFlags, error) {
	fs := flag.NewFlagSet(cmdServe, flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &serveFlags{}
	registerServeFlags(fs, f)

	fs.Usage = func() { printServeUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
