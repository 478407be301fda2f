package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	configureMaxProcs(hasVerboseFlag(os.Args[1:]), os.Stderr)

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// configureMaxProcs fits GOMAXPROCS to the container CPU quota, logging
// the decision only in verbose mode.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func configureMaxProcs(verbose bool, w io.Writer) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

// hasVerboseFlag scans args before flag parsing, which is per command.
func hasVerboseFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}
	return false
}

// runMain dispatches to a command and returns its exit code.
// Anything that is not a command name is treated as convert arguments.
func runMain(ctx context.Context, args []string, env *Environment) int {
	loadDotEnv(dotEnvFile, env.Stderr)
	warnUnknownEnvVars(env.Stderr)

	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "help", "-h", "--help":
		return runHelp(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "item2pdf %s\n", Version)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "check":
		return runCheckCmd(ctx, rest, env)
	case "convert":
		return runConvertCmd(ctx, rest, env)
	default:
		return runConvertCmd(ctx, args[1:], env)
	}
}
