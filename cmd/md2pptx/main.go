package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Command names.
const (
	cmdConvert    = "convert"
	cmdServe      = "serve"
	cmdThemes     = "themes"
	cmdDoctor     = "doctor"
	cmdCompletion = "completion"
	cmdVersion    = "version"
	cmdHelp       = "help"
)

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if slices.Contains(os.Args[1:], "-v") || slices.Contains(os.Args[1:], "--verbose") {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// errDoctorFailed reports that doctor found errors; the report is already printed.
var errDoctorFailed = errors.New("doctor found problems")

// runMain runs the CLI and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if err := run(ctx, args, env); err != nil {
		fmt.Fprintln(env.Stderr, formatError(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// run dispatches to a command. Anything that is not a command name is
// handed to convert, so "md2pptx lecture.md" works.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) < 2 {
		return runConvertCmd(ctx, nil, env)
	}

	switch args[1] {
	case cmdConvert:
		return runConvertCmd(ctx, args[2:], env)
	case cmdServe:
		return runServeCmd(ctx, args[2:], env)
	case cmdThemes:
		runThemes(env)
		return nil
	case cmdDoctor:
		if code := runDoctorCmd(args[2:], env); code != ExitSuccess {
			return errDoctorFailed
		}
		return nil
	case cmdCompletion:
		return runCompletion(args[2:], env)
	case cmdVersion:
		fmt.Fprintf(env.Stdout, "md2pptx %s\n", Version)
		return nil
	case cmdHelp, "-h", "--help":
		runHelp(args[2:], env)
		return nil
	default:
		return runConvertCmd(ctx, args[1:], env)
	}
}
