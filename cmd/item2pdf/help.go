package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-item2pdf/internal/assets"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: item2pdf <input> [output.pdf] [flags]")
	fmt.Fprintln(w, "       item2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert an item document to PDF (default)")
	fmt.Fprintln(w, "  check      Normalize an item document and report skipped fields")
	fmt.Fprintln(w, "  doctor     Check the LaTeX toolchain and templates")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'item2pdf help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: item2pdf [convert] <input> [output.pdf] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a YAML or XLSX item document to a PDF of item cards.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input     .yaml, .yml, or .xlsx item document")
	fmt.Fprintln(w, "  output    PDF path (default: input with .pdf extension)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -x, --tex                 Keep the generated .tex beside the PDF")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent item normalization (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           Title (default: input file name)")
	fmt.Fprintln(w, "      --no-title            Omit the title block")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, dddd, ddd")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long, weekday")
	fmt.Fprintln(w, "                            Use [text] to escape literals: [Loot of] YYYY")
	fmt.Fprintln(w, "  -p, --paper <s>           Paper size: a4, a5, letter, legal")
	fmt.Fprintln(w, "      --per-page <n>        Cards per page (0 = no forced breaks)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fields:")
	fmt.Fprintln(w, "      --strict              Fail on malformed known fields")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Typesetting:")
	fmt.Fprintln(w, "  -e, --engine <s>          pdflatex, xelatex, lualatex, or a path")
	fmt.Fprintln(w, "  -t, --timeout <d>         Engine timeout (e.g., 30s, 2m; default: none)")
	fmt.Fprintln(w, "      --passes <n>          Engine runs per document (1-3)")
	fmt.Fprintln(w, "      --temp-dir <path>     Parent directory for engine workdirs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Templates:")
	fmt.Fprintf(w, "      --template <s>        Name (%s) or .tex path\n", strings.Join(assets.TemplateNames(), ", "))
	fmt.Fprintln(w, "      --asset-path <path>   Directory with templates/*.tex")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timing and skipped fields")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ITEM2PDF_CONFIG, ITEM2PDF_ENGINE, ITEM2PDF_TIMEOUT, ITEM2PDF_TEMPLATE,")
	fmt.Fprintln(w, "  ITEM2PDF_PAPER, ITEM2PDF_DATE, ITEM2PDF_TEMP_DIR, ITEM2PDF_WORKERS")
	fmt.Fprintln(w, "  A .env file in the working directory is read first.")
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: item2pdf check <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Normalize an item document without typesetting it.")
	fmt.Fprintln(w, "Skipped fields are listed on stderr.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --strict              Fail on malformed known fields")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent item normalization (0 = auto)")
	fmt.Fprintln(w, "      --yaml                Print the normalized items as YAML")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors and skipped fields")
	fmt.Fprintln(w, "  -v, --verbose             Print every row")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: item2pdf doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the LaTeX engine, templates, and temp directory.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: item2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: item2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
