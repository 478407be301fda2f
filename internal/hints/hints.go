// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-item2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// goos is overridden by tests.
var goos = runtime.GOOS

// ForToolchainNotFound returns install suggestions for a missing LaTeX engine.
func ForToolchainNotFound(engine string) string {
	var hints []string

	switch {
	case IsInContainer() || os.Getenv("CI") != "":
		hints = append(hints, "install texlive-latex-base (apt) or texlive (apk) in the image")
	case goos == "darwin":
		hints = append(hints, "install MacTeX or BasicTeX")
	case goos == "windows":
		hints = append(hints, "install MiKTeX or TeX Live")
	default:
		hints = append(hints, "install TeX Live from your package manager")
	}

	if engine == "" || engine == "pdflatex" {
		hints = append(hints, "or point --engine at an installed xelatex or lualatex")
	} else {
		hints = append(hints, "or check that "+engine+" is on PATH")
	}

	return formatHints(hints)
}

// ForTypesetting returns a hint for engine failures.
func ForTypesetting(keptSource bool) string {
	if keptSource {
		return format("inspect the kept .tex file; author LaTeX in descriptions is passed through unescaped")
	}
	return format("rerun with --tex to keep the generated .tex file")
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, raise --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-item2pdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-item2pdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForTemplateNotFound lists the built-in templates.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", ") + ", or a path to a .tex file")
}

// ForMalformedField suggests how to see or relax malformed-field handling.
func ForMalformedField(strict bool) string {
	if strict {
		return format("fix the value or drop --strict to skip malformed fields")
	}
	return format("use --verbose to list skipped fields")
}

// ForUnsupportedInput lists accepted input formats.
func ForUnsupportedInput() string {
	return format("supported inputs: .yaml, .yml, .xlsx")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
