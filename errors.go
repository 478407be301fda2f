package item2pdf

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for library operations.
var (
	ErrMissingName       = errors.New("item name cannot be empty")
	ErrDuplicateName     = errors.New("duplicate item name")
	ErrMalformedField    = errors.New("malformed field")
	ErrWrite             = errors.New("output location is not writable")
	ErrToolchainNotFound = errors.New("typesetting toolchain not found")
	ErrTypesetting       = errors.New("typesetting failed")

	// Typesetting configuration errors.
	ErrUnsupportedEngine = errors.New("unsupported LaTeX engine")
	ErrInvalidPasses     = errors.New("invalid number of passes")

	// Input errors.
	ErrEmptyDocument    = errors.New("document contains no items")
	ErrInvalidDocument  = errors.New("document must be a mapping of item names to fields")
	ErrInvalidItem      = errors.New("item must be a mapping of field names to values")
	ErrUnsupportedInput = errors.New("unsupported input format")
	ErrReadInput        = errors.New("failed to read input file")

	// Model and template errors.
	ErrInvalidFieldSet  = errors.New("invalid known field set")
	ErrInvalidPaper     = errors.New("invalid paper size")
	ErrInvalidPerPage   = errors.New("invalid cards per page")
	ErrInvalidDate      = errors.New("invalid date")
	ErrTemplateRender   = errors.New("template rendering failed")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrTemplateNotFound = errors.New("template not found")
)

// MalformedFieldError reports a field whose value could not be coerced.
// By default it is collected as a diagnostic and the field is dropped;
// in strict mode it aborts normalization.
type MalformedFieldError struct {
	Item   string
	Field  string
	Reason string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("%s: item %q, field %q: %s", ErrMalformedField, e.Item, e.Field, e.Reason)
}

func (e *MalformedFieldError) Unwrap() error { return ErrMalformedField }

// TypesettingError carries the engine's captured output for a failed run.
type TypesettingError struct {
	Engine   string
	ExitCode int
	Output   string
}

// maxOutputLines bounds the engine log excerpt embedded in Error().
const maxOutputLines = 20

func (e *TypesettingError) Error() string {
	msg := fmt.Sprintf("%s: %s exited with status %d", ErrTypesetting, e.Engine, e.ExitCode)
	if excerpt := logExcerpt(e.Output, maxOutputLines); excerpt != "" {
		msg += "\n" + excerpt
	}
	return msg
}

func (e *TypesettingError) Unwrap() error { return ErrTypesetting }

// logExcerpt keeps the lines that matter from a LaTeX log: error lines
// (starting with "!" or "file:line:") and their context. Falls back to the
// tail of the output when nothing matches.
func logExcerpt(output string, limit int) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return ""
	}

	var picked []string
	for i, line := range lines {
		if strings.HasPrefix(line, "!") || isFileLineError(line) {
			end := min(i+3, len(lines))
			picked = append(picked, lines[i:end]...)
		}
		if len(picked) >= limit {
			break
		}
	}

	if len(picked) == 0 {
		start := max(len(lines)-limit, 0)
		picked = lines[start:]
	}
	if len(picked) > limit {
		picked = picked[:limit]
	}
	return strings.Join(picked, "\n")
}

// isFileLineError matches the "-file-line-error" format: "./cards.tex:12: ...".
func isFileLineError(line string) bool {
	first := strings.Index(line, ".tex:")
	if first < 0 {
		return false
	}
	rest := line[first+len(".tex:"):]
	colon := strings.Index(rest, ":")
	if colon <= 0 {
		return false
	}
	for _, r := range rest[:colon] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
