package item2pdf

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DocumentMeta holds document-level settings applied by the Assembler.
type DocumentMeta struct {
	Title        string
	Date         string // already resolved, e.g. "2025-01-31"
	Paper        Paper
	CardsPerPage int // 0 disables forced page breaks
}

// Assembler sequences normalized items into a Document.
type Assembler struct {
	normalizer *Normalizer
	workers    int
}

// NewAssembler creates an Assembler. workers bounds how many items are
// normalized concurrently; values below 1 mean serial normalization.
func NewAssembler(n *Normalizer, workers int) *Assembler {
	if workers < 1 {
		workers = 1
	}
	return &Assembler{normalizer: n, workers: workers}
}

// Assemble normalizes every entry of raw and returns the Document in input
// order. Duplicate names (after trimming) are rejected before any item is
// normalized. When several items fail, the error of the first one in input
// order is returned.
func (a *Assembler) Assemble(ctx context.Context, raw RawDocument, meta DocumentMeta) (*Document, []MalformedFieldError, error) {
	if len(raw) == 0 {
		return nil, nil, ErrEmptyDocument
	}
	if err := checkDuplicates(raw); err != nil {
		return nil, nil, err
	}
	if err := ValidateCardsPerPage(meta.CardsPerPage); err != nil {
		return nil, nil, err
	}
	paper, err := ParsePaper(string(meta.Paper))
	if err != nil {
		return nil, nil, err
	}

	items := make([]Item, len(raw))
	diags := make([][]MalformedFieldError, len(raw))
	errs := make([]error, len(raw))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, entry := range raw {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item, d, err := a.normalizer.Normalize(entry.Name, entry.Record)
			if err != nil {
				errs[i] = err
				return nil
			}
			item.Index = i
			items[i] = item
			diags[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	for i, err := range errs {
		if err != nil {
			return nil, nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	if meta.CardsPerPage > 0 {
		for i := range items {
			items[i].PageBreakAfter = (i+1)%meta.CardsPerPage == 0 && i < len(items)-1
		}
	}

	var all []MalformedFieldError
	for _, d := range diags {
		all = append(all, d...)
	}

	doc := &Document{
		Title:        EscapeText(strings.TrimSpace(meta.Title)),
		Date:         EscapeText(strings.TrimSpace(meta.Date)),
		Paper:        paper,
		CardsPerPage: meta.CardsPerPage,
		Items:        items,
	}
	return doc, all, nil
}

// checkDuplicates reports the first name that appears twice after trimming.
func checkDuplicates(raw RawDocument) error {
	seen := make(map[string]int, len(raw))
	for i, entry := range raw {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue // reported by the Normalizer as a missing name
		}
		if first, dup := seen[name]; dup {
			return fmt.Errorf("%w: %q (items %d and %d)", ErrDuplicateName, name, first+1, i+1)
		}
		seen[name] = i
	}
	return nil
}
