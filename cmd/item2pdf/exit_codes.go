package main

import (
	"errors"
	"os"

	item2pdf "github.com/alnah/go-item2pdf"
	"github.com/alnah/go-item2pdf/internal/config"
)

// Exit codes for the item2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful conversion
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or input document
	ExitIO        = 3 // File not found, permission denied, unwritable output
	ExitToolchain = 4 // LaTeX engine missing, failed, or timed out
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Toolchain errors (exit 4)
	if errors.Is(err, item2pdf.ErrToolchainNotFound) ||
		errors.Is(err, item2pdf.ErrTypesetting) {
		return ExitToolchain
	}

	// Usage/config/validation errors (exit 2). Checked before I/O so a
	// missing config file is reported as a usage problem.
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, item2pdf.ErrMissingName) ||
		errors.Is(err, item2pdf.ErrDuplicateName) ||
		errors.Is(err, item2pdf.ErrMalformedField) ||
		errors.Is(err, item2pdf.ErrEmptyDocument) ||
		errors.Is(err, item2pdf.ErrInvalidDocument) ||
		errors.Is(err, item2pdf.ErrInvalidItem) ||
		errors.Is(err, item2pdf.ErrUnsupportedInput) ||
		errors.Is(err, item2pdf.ErrInvalidFieldSet) ||
		errors.Is(err, item2pdf.ErrInvalidPaper) ||
		errors.Is(err, item2pdf.ErrInvalidPerPage) ||
		errors.Is(err, item2pdf.ErrInvalidDate) ||
		errors.Is(err, item2pdf.ErrTemplateRender) ||
		errors.Is(err, item2pdf.ErrTemplateNotFound) ||
		errors.Is(err, item2pdf.ErrInvalidAssetPath) ||
		errors.Is(err, item2pdf.ErrUnsupportedEngine) ||
		errors.Is(err, item2pdf.ErrInvalidPasses) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, item2pdf.ErrReadInput) ||
		errors.Is(err, item2pdf.ErrWrite) {
		return ExitIO
	}

	return ExitGeneral
}
