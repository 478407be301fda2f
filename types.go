package item2pdf

import (
	"fmt"
	"strings"
	"time"
)

// RawField is one author-written field of an item, in authoring order.
type RawField struct {
	Key   string
	Value any
}

// RawRecord holds an item's raw fields as produced by a source loader.
type RawRecord []RawField

// RawEntry pairs an item name with its raw record.
type RawEntry struct {
	Name   string
	Record RawRecord
}

// RawDocument is the ordered mapping of item names to raw records.
type RawDocument []RawEntry

// Field is a rendered row of a card. Value is already escaped for LaTeX.
type Field struct {
	Label string
	Value string
}

// Item is a normalized item card. Items are created by the Normalizer and
// must not be modified afterwards.
type Item struct {
	Name           string  // escaped display name
	RawName        string  // trimmed name as written by the author
	Known          []Field // in KnownFieldSet order
	Extra          []Field // in authoring order
	Description    string  // markup-escaped, may contain author LaTeX commands
	HasDescription bool
	Index          int  // position in the document
	PageBreakAfter bool // set by the Assembler when CardsPerPage is reached
}

// Document is the document-level model consumed by the Binder.
type Document struct {
	Title        string
	Date         string
	Paper        Paper
	CardsPerPage int
	Items        []Item
}

// Paper is a supported LaTeX paper size.
type Paper string

// Supported paper sizes.
const (
	PaperA4     Paper = "a4"
	PaperA5     Paper = "a5"
	PaperLetter Paper = "letter"
	PaperLegal  Paper = "legal"
)

// DefaultPaper is used when no paper size is specified.
const DefaultPaper = PaperA4

// maxCardsPerPage caps the pagination hint to something a page can hold.
const maxCardsPerPage = 16

// ParsePaper validates a paper size name (case-insensitive). Empty means DefaultPaper.
func ParsePaper(s string) (Paper, error) {
	switch p := Paper(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DefaultPaper, nil
	case PaperA4, PaperA5, PaperLetter, PaperLegal:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q (must be a4, a5, letter, or legal)", ErrInvalidPaper, s)
	}
}

// LatexOption returns the documentclass option for the paper size.
func (p Paper) LatexOption() string {
	if p == "" {
		p = DefaultPaper
	}
	return string(p) + "paper"
}

// ValidateCardsPerPage checks the pagination hint. Zero disables forced breaks.
func ValidateCardsPerPage(n int) error {
	if n < 0 || n > maxCardsPerPage {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidPerPage, n, maxCardsPerPage)
	}
	return nil
}

// Result describes a completed render.
type Result struct {
	OutputPath string
	SourcePath string // empty unless the intermediate source was kept
	Pages      int    // 0 if the PDF could not be inspected
	Duration   time.Duration
}
