// Package item2pdf converts tabletop-game item descriptions into a PDF of
// item cards, typeset with LaTeX.
//
// # Quick Start
//
//	conv, err := item2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx,
//	    item2pdf.Input{Path: "loot.yaml"},
//	    item2pdf.Output{Path: "loot.pdf"},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Pages, "pages")
//
// # Input
//
// A document maps item names to fields, in YAML:
//
//	Sword:
//	  type: Longsword
//	  attack bonus: 1
//	  description: |
//	    A blade that hums near \textbf{goblins}.
//
// Spreadsheets (.xlsx) are read with the header row as field names and the
// "name" column (or the first column) as item names.
//
// # Conversion Pipeline
//
//  1. Load: YAML or XLSX into a RawDocument, order preserved
//  2. Normalize: known fields matched by canonical key and coerced by rule,
//     unknown fields kept in authoring order, all text escaped for LaTeX
//  3. Assemble: duplicate detection, document metadata, page breaks
//  4. Bind: text/template with << >> delimiters
//  5. Typeset: LaTeX engine in a temporary workdir, process group killed on
//     cancellation
//  6. Move: the PDF replaces the output path atomically
//
// # Known Fields
//
// DefaultFieldSet recognizes type, rarity, attack bonus, AC, AC bonus, and
// time under several spellings. Projects extend it with KnownFieldSet.With:
//
//	dc := item2pdf.KnownField{Key: "dc", Label: "DC", Rule: item2pdf.RuleLines}
//	fs, err := item2pdf.DefaultFieldSet().With(dc)
//	conv, err := item2pdf.NewConverter(item2pdf.WithFieldSet(fs))
//
// # Error Handling
//
// Errors wrap the sentinels in errors.go; test with errors.Is. Typesetting
// failures are *TypesettingError and carry the engine output. Malformed
// fields are skipped and reported in ConvertResult.Diagnostics unless
// WithStrict(true) is set.
package item2pdf
