package item2pdf

import (
	"fmt"
	"strings"
)

// Normalizer turns raw item records into Items using a KnownFieldSet.
// A Normalizer is safe for concurrent use; it holds no mutable state.
type Normalizer struct {
	fields KnownFieldSet
	strict bool
}

// NewNormalizer creates a Normalizer for the given field set.
// In strict mode the first malformed known field is returned as an error
// instead of being dropped.
func NewNormalizer(fields KnownFieldSet, strict bool) *Normalizer {
	return &Normalizer{fields: fields, strict: strict}
}

// Normalize builds the Item for one raw record.
//
// Known fields are emitted in the field set's order regardless of authoring
// order. Unknown keys become Extra fields in authoring order. A known field
// whose value cannot be coerced is treated as absent and reported in the
// returned diagnostics (or returned as the error in strict mode).
func (n *Normalizer) Normalize(name string, raw RawRecord) (Item, []MalformedFieldError, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Item{}, nil, ErrMissingName
	}

	item := Item{
		Name:    EscapeText(trimmed),
		RawName: trimmed,
	}

	var diags []MalformedFieldError
	report := func(field, reason string) error {
		d := MalformedFieldError{Item: trimmed, Field: field, Reason: reason}
		if n.strict {
			return &d
		}
		diags = append(diags, d)
		return nil
	}

	known := make([]*Field, n.fields.Len())
	defs := n.fields.fields

	for _, rf := range raw {
		key := strings.TrimSpace(rf.Key)

		if isDescriptionKey(key) {
			if item.HasDescription {
				if err := report(key, "duplicate description"); err != nil {
					return Item{}, nil, err
				}
				continue
			}
			text, err := stringify(rf.Value)
			if err != nil {
				if err := report(key, err.Error()); err != nil {
					return Item{}, nil, err
				}
				continue
			}
			item.Description = EscapeMarkup(text)
			item.HasDescription = text != ""
			continue
		}

		pos, ok := n.fields.lookup(key)
		if !ok {
			extra, err := n.extraField(key, rf.Value)
			if err != nil {
				if err := report(key, err.Error()); err != nil {
					return Item{}, nil, err
				}
				continue
			}
			item.Extra = append(item.Extra, extra)
			continue
		}

		if known[pos] != nil {
			// A second spelling of an already present known field: keep it
			// visible as an extra row rather than silently dropping it.
			if err := report(key, fmt.Sprintf("shadowed by an earlier %q field", defs[pos].Label)); err != nil {
				return Item{}, nil, err
			}
			if extra, err := n.extraField(key, rf.Value); err == nil {
				item.Extra = append(item.Extra, extra)
			}
			continue
		}

		value, reason := coerce(defs[pos].Rule, rf.Value)
		if reason != "" {
			if err := report(key, reason); err != nil {
				return Item{}, nil, err
			}
			continue
		}
		known[pos] = &Field{Label: EscapeText(defs[pos].Label), Value: value}
	}

	for pos, def := range defs {
		switch {
		case known[pos] != nil:
			item.Known = append(item.Known, *known[pos])
		case def.Absence == AbsenceBlank:
			item.Known = append(item.Known, Field{Label: EscapeText(def.Label)})
		}
	}

	return item, diags, nil
}

// extraField renders an unrecognized field. The label keeps the author's
// spelling; only escaping is applied.
func (n *Normalizer) extraField(key string, v any) (Field, error) {
	text, err := stringify(v)
	if err != nil {
		return Field{}, err
	}
	return Field{Label: EscapeText(key), Value: EscapeText(text)}, nil
}
