package main

// Notes:
// - parseConvertFlags/parseCheckFlags: we test defaults, shorthands, and
//   interspersed positional arguments. pflag itself is not retested.

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Defaults, shorthands, positional args
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		f, args, err := parseConvertFlags([]string{"loot.yaml"}, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("parseConvertFlags() error = %v", err)
		}
		if diff := cmp.Diff([]string{"loot.yaml"}, args); diff != "" {
			t.Errorf("args mismatch (-want +got):\n%s", diff)
		}
		if f.document.perPage != perPageUnset {
			t.Errorf("perPage = %d, want %d", f.document.perPage, perPageUnset)
		}
		if f.typeset.passes != 0 || f.normalize.workers != 0 {
			t.Errorf("passes, workers = %d, %d; want 0, 0", f.typeset.passes, f.normalize.workers)
		}
	})

	t.Run("shorthands and interspersed args", func(t *testing.T) {
		t.Parallel()

		f, args, err := parseConvertFlags([]string{
			"-c", "cards", "loot.yaml", "-q", "-p", "letter", "-e", "xelatex",
			"-t", "2m", "-x", "-w", "3", "out.pdf", "--per-page", "0",
		}, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("parseConvertFlags() error = %v", err)
		}

		want := convertFlags{
			common:    commonFlags{config: "cards", quiet: true},
			document:  documentFlags{paper: "letter", perPage: 0},
			typeset:   typesetFlags{engine: "xelatex", timeout: "2m", tex: true},
			normalize: normalizeFlags{workers: 3},
		}
		if *f != want {
			t.Errorf("flags = %+v, want %+v", *f, want)
		}
		if diff := cmp.Diff([]string{"loot.yaml", "out.pdf"}, args); diff != "" {
			t.Errorf("args mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("help returns ErrHelp and prints usage", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		_, _, err := parseConvertFlags([]string{"--help"}, &stderr)
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("error = %v, want flag.ErrHelp", err)
		}
		if !bytes.Contains(stderr.Bytes(), []byte("Usage: item2pdf [convert]")) {
			t.Errorf("stderr %q should contain usage", stderr.String())
		}
	})

	t.Run("bad integer", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseConvertFlags([]string{"--per-page", "many"}, &bytes.Buffer{}); err == nil {
			t.Error("expected error for non-integer --per-page")
		}
	})
}

func TestParseCheckFlags(t *testing.T) {
	t.Parallel()

	f, args, err := parseCheckFlags([]string{"--yaml", "-v", "--strict", "loot.xlsx"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseCheckFlags() error = %v", err)
	}
	want := checkFlags{
		common:    commonFlags{verbose: true},
		normalize: normalizeFlags{strict: true},
		yaml:      true,
	}
	if *f != want {
		t.Errorf("flags = %+v, want %+v", *f, want)
	}
	if len(args) != 1 || args[0] != "loot.xlsx" {
		t.Errorf("args = %v, want [loot.xlsx]", args)
	}

	if _, _, err := parseCheckFlags([]string{"--paper", "a4"}, &bytes.Buffer{}); err == nil {
		t.Error("check should not accept document flags")
	}
}
