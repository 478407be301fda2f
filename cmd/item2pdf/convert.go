package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	item2pdf "github.com/alnah/go-item2pdf"
	"github.com/alnah/go-item2pdf/internal/config"
	"github.com/alnah/go-item2pdf/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// runConvertCmd parses flags, converts one document, and returns an exit code.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	cfg, err := runConvert(ctx, positional, flags, env)
	if err != nil {
		printError(env.Stderr, err, cfg, cfg != nil && cfg.Typesetting.KeepSource)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert orchestrates the conversion. The merged config is returned
// even on failure so the caller can pick a hint.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) (*config.Config, error) {
	// Validate worker count early
	if err := validateWorkers(flags.normalize.workers); err != nil {
		return nil, err
	}

	input, output, err := resolvePaths(positionalArgs)
	if err != nil {
		return nil, err
	}

	// Load configuration: flags > config file > env > defaults
	cfg, err := resolveConfig(flags.common.config, loadEnvConfig(), env)
	if err != nil {
		return nil, err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	opts, err := buildOptions(cfg, env)
	if err != nil {
		return cfg, err
	}
	conv, err := item2pdf.NewConverter(opts...)
	if err != nil {
		return cfg, err
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Workers: %d\n", resolveWorkers(cfg.Normalize.Workers))
	}

	result, err := conv.Convert(ctx,
		item2pdf.Input{
			Path:         input,
			Title:        cfg.Document.Title,
			NoTitle:      cfg.Document.NoTitle,
			Date:         cfg.Document.Date,
			Paper:        cfg.Document.Paper,
			CardsPerPage: cfg.Document.CardsPerPage,
		},
		item2pdf.Output{Path: output, KeepSource: cfg.Typesetting.KeepSource},
	)
	if result != nil {
		printDiagnostics(env.Stderr, result.Diagnostics, flags.common)
	}
	if err != nil {
		if result != nil && result.SourcePath != "" && !flags.common.quiet {
			fmt.Fprintf(env.Stderr, "Kept %s\n", result.SourcePath)
		}
		return cfg, err
	}

	printResult(env.Stdout, input, result, flags.common)
	return cfg, nil
}

// printResult reports a successful conversion.
func printResult(w io.Writer, input string, r *item2pdf.ConvertResult, f commonFlags) {
	if f.quiet {
		return
	}
	if f.verbose {
		fmt.Fprintf(w, "%s -> %s (%d items, %d pages, %v)\n",
			input, r.OutputPath, r.Items, r.Pages, r.Duration.Round(time.Millisecond))
	} else {
		fmt.Fprintf(w, "Created %s\n", r.OutputPath)
	}
	if r.SourcePath != "" {
		fmt.Fprintf(w, "Kept %s\n", r.SourcePath)
	}
}

// printDiagnostics lists skipped fields with --verbose and summarizes them
// otherwise. Nothing is printed with --quiet.
func printDiagnostics(w io.Writer, diags []item2pdf.MalformedFieldError, f commonFlags) {
	if f.quiet || len(diags) == 0 {
		return
	}
	if f.verbose {
		for _, d := range diags {
			fmt.Fprintf(w, "warning: skipped %v\n", &d)
		}
		return
	}
	fmt.Fprintf(w, "warning: skipped %d malformed field(s)%s\n", len(diags), hints.ForMalformedField(false))
}

// printError writes err with its hint, if any.
func printError(w io.Writer, err error, cfg *config.Config, keptSource bool) {
	fmt.Fprintf(w, "error: %v%s\n", err, errorHint(err, cfg, keptSource))
}
