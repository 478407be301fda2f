package item2pdf

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Rule selects how a known field's raw value is coerced into display text.
type Rule int

// Coercion rules.
const (
	RuleText   Rule = iota // escaped plain text
	RuleSigned             // integer with explicit sign (+1, -2)
	RuleLines              // escaped text, "/" separators become line breaks
	RuleMarkup             // author LaTeX survives, reserved characters escaped
)

var ruleNames = map[Rule]string{
	RuleText:   "text",
	RuleSigned: "signed",
	RuleLines:  "lines",
	RuleMarkup: "markup",
}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// ParseRule parses a rule name as used in config files. Empty means RuleText.
func ParseRule(s string) (Rule, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return RuleText, nil
	}
	for r, n := range ruleNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rule %q (must be text, signed, lines, or markup)", ErrInvalidFieldSet, s)
}

// Absence selects what happens when a known field is missing from a record.
type Absence int

// Absence behaviors.
const (
	AbsenceOmit  Absence = iota // skip the row
	AbsenceBlank                // render the row with an empty value
)

func (a Absence) String() string {
	switch a {
	case AbsenceOmit:
		return "omit"
	case AbsenceBlank:
		return "blank"
	default:
		return fmt.Sprintf("Absence(%d)", int(a))
	}
}

// ParseAbsence parses an absence behavior name. Empty means AbsenceOmit.
func ParseAbsence(s string) (Absence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "omit":
		return AbsenceOmit, nil
	case "blank":
		return AbsenceBlank, nil
	default:
		return 0, fmt.Errorf("%w: unknown absence %q (must be omit or blank)", ErrInvalidFieldSet, s)
	}
}

// KnownField describes a recognized field: where it is displayed, how its
// value is coerced, and what to do when it is missing.
type KnownField struct {
	Key     string   // primary spelling, also matched
	Label   string   // display label
	Aliases []string // other accepted spellings
	Rule    Rule
	Absence Absence
}

// descriptionKeys are the spellings that select the description body.
var descriptionKeys = []string{"description", "desc"}

// KnownFieldSet is an immutable, ordered set of known fields.
// The order of the set is the display order on every card.
type KnownFieldSet struct {
	fields []KnownField
	index  map[string]int // canonical spelling -> position in fields
}

// DefaultFieldSet returns the built-in known fields in display order.
// All of them are omitted when absent; AbsenceBlank is for project-defined
// fields that must always occupy a row.
func DefaultFieldSet() KnownFieldSet {
	set, err := NewFieldSet(
		KnownField{Key: "type", Label: "Type", Aliases: []string{"item type"}},
		KnownField{Key: "rarity", Label: "Rarity"},
		KnownField{Key: "attack bonus", Label: "Attack Bonus", Aliases: []string{"bonus", "to hit"}, Rule: RuleSigned},
		KnownField{Key: "ac", Label: "AC", Aliases: []string{"armor class", "armour class"}},
		KnownField{Key: "ac bonus", Label: "AC Bonus", Rule: RuleSigned},
		KnownField{Key: "time", Label: "Time", Aliases: []string{"uses", "recharge"}},
	)
	if err != nil {
		panic("item2pdf: invalid default field set: " + err.Error())
	}
	return set
}

// NewFieldSet builds a field set, rejecting empty keys or labels and
// spellings that collide after canonicalization.
func NewFieldSet(fields ...KnownField) (KnownFieldSet, error) {
	set := KnownFieldSet{
		fields: make([]KnownField, 0, len(fields)),
		index:  make(map[string]int),
	}

	reserved := make(map[string]bool, len(descriptionKeys))
	for _, k := range descriptionKeys {
		reserved[CanonicalKey(k)] = true
	}

	for _, f := range fields {
		if strings.TrimSpace(f.Key) == "" {
			return KnownFieldSet{}, fmt.Errorf("%w: field key cannot be empty", ErrInvalidFieldSet)
		}
		if strings.TrimSpace(f.Label) == "" {
			return KnownFieldSet{}, fmt.Errorf("%w: field %q has no label", ErrInvalidFieldSet, f.Key)
		}
		if _, ok := ruleNames[f.Rule]; !ok {
			return KnownFieldSet{}, fmt.Errorf("%w: field %q has invalid rule %d", ErrInvalidFieldSet, f.Key, f.Rule)
		}
		if f.Absence != AbsenceOmit && f.Absence != AbsenceBlank {
			return KnownFieldSet{}, fmt.Errorf("%w: field %q has invalid absence %d", ErrInvalidFieldSet, f.Key, f.Absence)
		}

		pos := len(set.fields)
		for _, spelling := range append([]string{f.Key}, f.Aliases...) {
			key := CanonicalKey(spelling)
			if key == "" {
				return KnownFieldSet{}, fmt.Errorf("%w: field %q has an empty alias", ErrInvalidFieldSet, f.Key)
			}
			if reserved[key] {
				return KnownFieldSet{}, fmt.Errorf("%w: %q is reserved for the description", ErrInvalidFieldSet, spelling)
			}
			if other, taken := set.index[key]; taken && other != pos {
				return KnownFieldSet{}, fmt.Errorf("%w: %q already used by field %q", ErrInvalidFieldSet, spelling, set.fields[other].Key)
			}
			set.index[key] = pos
		}

		f.Aliases = append([]string(nil), f.Aliases...)
		set.fields = append(set.fields, f)
	}

	return set, nil
}

// With returns a new set with extra fields appended after the existing ones.
// The receiver is not modified.
func (s KnownFieldSet) With(extra ...KnownField) (KnownFieldSet, error) {
	all := make([]KnownField, 0, len(s.fields)+len(extra))
	all = append(all, s.fields...)
	all = append(all, extra...)
	return NewFieldSet(all...)
}

// Fields returns a copy of the fields in display order.
func (s KnownFieldSet) Fields() []KnownField {
	out := make([]KnownField, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of known fields.
func (s KnownFieldSet) Len() int { return len(s.fields) }

// lookup returns the position of the known field matching a raw key.
func (s KnownFieldSet) lookup(rawKey string) (int, bool) {
	pos, ok := s.index[CanonicalKey(rawKey)]
	return pos, ok
}

// isDescriptionKey reports whether a raw key selects the description body.
func isDescriptionKey(rawKey string) bool {
	key := CanonicalKey(rawKey)
	for _, k := range descriptionKeys {
		if key == k {
			return true
		}
	}
	return false
}

// CanonicalKey folds a field name into its matching form: NFKC-normalized,
// case-folded, with spaces, hyphens, underscores, and dots removed.
// "Attack Bonus", "attack_bonus", and "ATTACK-BONUS" share one canonical key.
func CanonicalKey(s string) string {
	folded := cases.Fold().String(norm.NFKC.String(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '_', '.':
			return -1
		}
		return r
	}, folded)
}
