package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// perPageUnset detects if --per-page was explicitly set.
// Zero is valid (no forced page breaks), so an out-of-range sentinel is used.
const perPageUnset = -1

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds document metadata flags.
type documentFlags struct {
	title   string
	noTitle bool
	date    string
	paper   string
	perPage int
}

// typesetFlags holds LaTeX engine flags.
type typesetFlags struct {
	engine  string
	timeout string
	passes  int
	tex     bool
	tempDir string
}

// assetFlags holds template selection flags.
type assetFlags struct {
	template  string // Name or path to a .tex file
	assetPath string // Directory with templates/*.tex
}

// normalizeFlags holds record normalization flags.
type normalizeFlags struct {
	strict  bool
	workers int
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	document  documentFlags
	typeset   typesetFlags
	assets    assetFlags
	normalize normalizeFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and skipped fields")
}

// addDocumentFlags adds document metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "document title (\"\" = input file name)")
	fs.BoolVar(&f.noTitle, "no-title", false, "omit the title block")
	fs.StringVar(&f.date, "date", "", "document date (\"auto\" = today)")
	fs.StringVarP(&f.paper, "paper", "p", "", "paper size: a4, a5, letter, legal")
	fs.IntVar(&f.perPage, "per-page", perPageUnset, "cards per page (0 = no forced breaks)")
}

// addTypesetFlags adds LaTeX engine flags to a FlagSet.
func addTypesetFlags(fs *flag.FlagSet, f *typesetFlags) {
	fs.StringVarP(&f.engine, "engine", "e", "", "LaTeX engine: pdflatex, xelatex, lualatex, or a path")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "engine timeout (e.g., 30s, 2m)")
	fs.IntVar(&f.passes, "passes", 0, "engine runs per document (1-3)")
	fs.BoolVarP(&f.tex, "tex", "x", false, "keep the generated .tex beside the PDF")
	fs.StringVar(&f.tempDir, "temp-dir", "", "parent directory for engine workdirs")
}

// addAssetFlags adds template flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.template, "template", "", "template name or .tex file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom template directory")
}

// addNormalizeFlags adds normalization flags to a FlagSet.
func addNormalizeFlags(fs *flag.FlagSet, f *normalizeFlags) {
	fs.BoolVar(&f.strict, "strict", false, "fail on malformed known fields")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent item normalization (0 = auto)")
}

// parseConvertFlags parses convert command flags and returns positional args.
// Usage and parse errors are written to stderr.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &convertFlags{}

	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addTypesetFlags(fs, &f.typeset)
	addAssetFlags(fs, &f.assets)
	addNormalizeFlags(fs, &f.normalize)

	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// checkFlags holds flags for the check command.
type checkFlags struct {
	common    commonFlags
	normalize normalizeFlags
	yaml      bool
}

// parseCheckFlags parses check command flags and returns positional args.
func parseCheckFlags(args []string, stderr io.Writer) (*checkFlags, []string, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &checkFlags{}

	addCommonFlags(fs, &f.common)
	addNormalizeFlags(fs, &f.normalize)
	fs.BoolVar(&f.yaml, "yaml", false, "print the normalized items as YAML")

	fs.Usage = func() { printCheckUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
