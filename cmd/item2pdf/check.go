package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	item2pdf "github.com/alnah/go-item2pdf"
	"github.com/alnah/go-item2pdf/internal/yamlutil"
)

// checkedItem is the --yaml view of a normalized item.
type checkedItem struct {
	Name        string            `yaml:"name"`
	Fields      yamlutil.MapSlice `yaml:"fields,omitempty"`
	Description string            `yaml:"description,omitempty"`
}

// runCheckCmd normalizes a document without typesetting it and reports
// every skipped field. Useful before installing a LaTeX toolchain.
func runCheckCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseCheckFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	if err := runCheck(ctx, positional, flags, env); err != nil {
		printError(env.Stderr, err, nil, false)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func runCheck(ctx context.Context, positionalArgs []string, flags *checkFlags, env *Environment) error {
	if err := validateWorkers(flags.normalize.workers); err != nil {
		return err
	}
	if len(positionalArgs) != 1 {
		return fmt.Errorf("%w: check takes exactly one input file", ErrUsage)
	}
	input := positionalArgs[0]

	cfg, err := resolveConfig(flags.common.config, loadEnvConfig(), env)
	if err != nil {
		return err
	}
	mergeNormalizeFlags(flags.normalize, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	fields, err := buildFieldSet(cfg.Fields)
	if err != nil {
		return err
	}

	raw, err := item2pdf.LoadFile(input)
	if err != nil {
		return err
	}

	assembler := item2pdf.NewAssembler(
		item2pdf.NewNormalizer(fields, cfg.Normalize.Strict),
		resolveWorkers(cfg.Normalize.Workers),
	)
	doc, diags, err := assembler.Assemble(ctx, raw, item2pdf.DocumentMeta{})
	if err != nil {
		return err
	}

	if flags.yaml {
		if err := printItemsYAML(env.Stdout, doc.Items); err != nil {
			return err
		}
	} else if !flags.common.quiet {
		printItems(env.Stdout, doc.Items, flags.common.verbose)
	}

	for _, d := range diags {
		fmt.Fprintf(env.Stderr, "warning: skipped %v\n", &d)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "%s: %d items, %d skipped field(s)\n", input, len(doc.Items), len(diags))
	}
	return nil
}

// printItems lists item names, and their rows with verbose.
func printItems(w io.Writer, items []item2pdf.Item, verbose bool) {
	for _, item := range items {
		fmt.Fprintln(w, item.RawName)
		if !verbose {
			continue
		}
		for _, f := range item.Known {
			fmt.Fprintf(w, "  %s: %s\n", f.Label, f.Value)
		}
		for _, f := range item.Extra {
			fmt.Fprintf(w, "  %s: %s\n", f.Label, f.Value)
		}
	}
}

func printItemsYAML(w io.Writer, items []item2pdf.Item) error {
	out := make([]checkedItem, 0, len(items))
	for _, item := range items {
		ci := checkedItem{Name: item.RawName, Description: item.Description}
		for _, f := range append(append([]item2pdf.Field(nil), item.Known...), item.Extra...) {
			ci.Fields = append(ci.Fields, yamlutil.MapItem{Key: f.Label, Value: f.Value})
		}
		out = append(out, ci)
	}

	data, err := yamlutil.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}
	_, err = w.Write(data)
	return err
}
