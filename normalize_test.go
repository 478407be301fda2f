package item2pdf

// Notes:
// - Items are compared with cmp.Diff, which distinguishes nil from empty
//   slices; the Normalizer leaves Known and Extra nil when nothing is added.
// - Coercion rules are tested through coerce directly and through Normalize
//   for the drop-and-report behavior.

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// rec builds a RawRecord from alternating keys and values.
func rec(kv ...any) RawRecord {
	r := make(RawRecord, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		r = append(r, RawField{Key: kv[i].(string), Value: kv[i+1]})
	}
	return r
}

func defaultNormalizer() *Normalizer {
	return NewNormalizer(DefaultFieldSet(), false)
}

// ---------------------------------------------------------------------------
// TestNormalize - Field classification and ordering
// ---------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item string
		raw  RawRecord
		want Item
	}{
		{
			name: "known fields with description",
			item: "Sword",
			raw:  rec("type", "Longsword", "attack bonus", 1, "description", "A blade."),
			want: Item{
				Name:           "Sword",
				RawName:        "Sword",
				Known:          []Field{{"Type", "Longsword"}, {"Attack Bonus", "+1"}},
				Description:    "A blade.",
				HasDescription: true,
			},
		},
		{
			name: "known fields follow set order not authoring order",
			item: "Toothpick of great Power",
			raw:  rec("time", "Once per day", "AC bonus", 42, "rarity", "very rare", "type", "Toothpick", "attack bonus", "+5"),
			want: Item{
				Name:    "Toothpick of great Power",
				RawName: "Toothpick of great Power",
				Known: []Field{
					{"Type", "Toothpick"},
					{"Rarity", "very rare"},
					{"Attack Bonus", "+5"},
					{"AC Bonus", "+42"},
					{"Time", "Once per day"},
				},
			},
		},
		{
			name: "armor class is kept as written",
			item: "Plate",
			raw:  rec("AC", 15),
			want: Item{
				Name:    "Plate",
				RawName: "Plate",
				Known:   []Field{{"AC", "15"}},
			},
		},
		{
			name: "armor class with modifier text",
			item: "Leather",
			raw:  rec("AC", "13 + Dex", "AC bonus", 1),
			want: Item{
				Name:    "Leather",
				RawName: "Leather",
				Known:   []Field{{"AC", "13 + Dex"}, {"AC Bonus", "+1"}},
			},
		},
		{
			name: "custom fields only",
			item: "Ring",
			raw:  rec("DC", "Arcana 15", "advantages", "Wisdom ST"),
			want: Item{
				Name:    "Ring",
				RawName: "Ring",
				Extra:   []Field{{"DC", "Arcana 15"}, {"advantages", "Wisdom ST"}},
			},
		},
		{
			name: "extras keep authoring order and spelling",
			item: "Cloak",
			raw:  rec("Weight_lb", 2, "type", "Cloak", "Attunement", true, "notes", ""),
			want: Item{
				Name:    "Cloak",
				RawName: "Cloak",
				Known:   []Field{{"Type", "Cloak"}},
				Extra:   []Field{{`Weight\_lb`, "2"}, {"Attunement", "true"}, {"notes", ""}},
			},
		},
		{
			name: "name and values are escaped",
			item: "  Salt & Pepper  ",
			raw:  rec("type", "50% spice", "cost", "$5"),
			want: Item{
				Name:    `Salt \& Pepper`,
				RawName: "Salt & Pepper",
				Known:   []Field{{"Type", `50\% spice`}},
				Extra:   []Field{{"cost", `\$5`}},
			},
		},
		{
			name: "description markup survives",
			item: "Wand",
			raw:  rec("desc", "Fire & ice.\\newline \\textbf{Hot}."),
			want: Item{
				Name:           "Wand",
				RawName:        "Wand",
				Description:    `Fire \& ice.\newline \textbf{Hot}.`,
				HasDescription: true,
			},
		},
		{
			name: "null description is absent",
			item: "Stone",
			raw:  rec("description", nil),
			want: Item{Name: "Stone", RawName: "Stone"},
		},
		{
			name: "sequence values are joined",
			item: "Bag",
			raw:  rec("contents", []any{"rope", "torch", 3}),
			want: Item{
				Name:    "Bag",
				RawName: "Bag",
				Extra:   []Field{{"contents", "rope, torch, 3"}},
			},
		},
		{
			name: "empty record",
			item: "Pebble",
			raw:  RawRecord{},
			want: Item{Name: "Pebble", RawName: "Pebble"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, diags, err := defaultNormalizer().Normalize(tt.item, tt.raw)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if len(diags) != 0 {
				t.Errorf("Normalize() diagnostics = %v, want none", diags)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_MissingName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "   ", "\t\n"} {
		_, _, err := defaultNormalizer().Normalize(name, rec("type", "Sword"))
		if !errors.Is(err, ErrMissingName) {
			t.Errorf("Normalize(%q) error = %v, want ErrMissingName", name, err)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	raw := rec("type", "Shield", "ac", 2, "weight", 6, "description", "Round & heavy.")
	n := defaultNormalizer()

	first, _, err := n.Normalize("Shield", raw)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := n.Normalize("Shield", raw)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Normalize() differs (-first +second):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestNormalize_Malformed - Drop-and-report and strict mode
// ---------------------------------------------------------------------------

func TestNormalize_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       RawRecord
		wantKnown []Field
		wantExtra []Field
		wantField string
	}{
		{
			name:      "signed field with text",
			raw:       rec("type", "Axe", "attack bonus", "lots"),
			wantKnown: []Field{{"Type", "Axe"}},
			wantField: "attack bonus",
		},
		{
			name:      "signed field with fraction",
			raw:       rec("ac bonus", 1.5),
			wantField: "ac bonus",
		},
		{
			name:      "empty known text field",
			raw:       rec("rarity", "  "),
			wantField: "rarity",
		},
		{
			name:      "nested mapping in extra field",
			raw:       rec("stats", rec("str", 18)),
			wantField: "stats",
		},
		{
			name:      "second spelling of a known field",
			raw:       rec("bonus", 2, "attack bonus", 1),
			wantKnown: []Field{{"Attack Bonus", "+2"}},
			wantExtra: []Field{{"attack bonus", "1"}},
			wantField: "attack bonus",
		},
		{
			name:      "duplicate description",
			raw:       rec("description", "one", "desc", "two"),
			wantField: "desc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, diags, err := defaultNormalizer().Normalize("Thing", tt.raw)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if len(diags) != 1 {
				t.Fatalf("diagnostics = %v, want exactly one", diags)
			}
			if diags[0].Field != tt.wantField || diags[0].Item != "Thing" {
				t.Errorf("diagnostic = %+v, want field %q of item Thing", diags[0], tt.wantField)
			}
			if diff := cmp.Diff(tt.wantKnown, got.Known); diff != "" {
				t.Errorf("Known mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantExtra, got.Extra); diff != "" {
				t.Errorf("Extra mismatch (-want +got):\n%s", diff)
			}

			// Strict mode turns the same input into an error.
			_, _, err = NewNormalizer(DefaultFieldSet(), true).Normalize("Thing", tt.raw)
			if !errors.Is(err, ErrMalformedField) {
				t.Fatalf("strict Normalize() error = %v, want ErrMalformedField", err)
			}
			var mfe *MalformedFieldError
			if !errors.As(err, &mfe) || mfe.Field != tt.wantField {
				t.Errorf("strict error = %#v, want MalformedFieldError for %q", err, tt.wantField)
			}
		})
	}
}

func TestNormalize_BlankAbsence(t *testing.T) {
	t.Parallel()

	fs, err := DefaultFieldSet().With(KnownField{Key: "dc", Label: "DC", Rule: RuleLines, Absence: AbsenceBlank})
	if err != nil {
		t.Fatal(err)
	}

	got, _, err := NewNormalizer(fs, false).Normalize("Orb", rec("type", "Orb"))
	if err != nil {
		t.Fatal(err)
	}
	want := []Field{{"Type", "Orb"}, {"DC", ""}}
	if diff := cmp.Diff(want, got.Known); diff != "" {
		t.Errorf("Known mismatch (-want +got):\n%s", diff)
	}

	got, _, err = NewNormalizer(fs, false).Normalize("Orb", rec("DC", "Arcana 3/ History 5"))
	if err != nil {
		t.Fatal(err)
	}
	want = []Field{{"DC", `Arcana 3\newline History 5`}}
	if diff := cmp.Diff(want, got.Known); diff != "" {
		t.Errorf("Known mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestCoerce - Rule application
// ---------------------------------------------------------------------------

func TestCoerce_Signed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		want    string
		wantBad bool
	}{
		{name: "positive int", value: 1, want: "+1"},
		{name: "negative int", value: -2, want: "-2"},
		{name: "zero", value: 0, want: "+0"},
		{name: "uint64", value: uint64(3), want: "+3"},
		{name: "whole float", value: 4.0, want: "+4"},
		{name: "signed string", value: "+5", want: "+5"},
		{name: "negative string", value: "-6", want: "-6"},
		{name: "unicode minus", value: "−7", want: "-7"},
		{name: "space after sign", value: "+ 8", want: "+8"},
		{name: "leading zeros", value: "007", want: "+7"},
		{name: "negative zero", value: "-0", want: "+0"},
		{name: "padded string", value: "  9 ", want: "+9"},
		{name: "fraction", value: 1.5, wantBad: true},
		{name: "bool", value: true, wantBad: true},
		{name: "word", value: "lots", wantBad: true},
		{name: "dice", value: "1d4", wantBad: true},
		{name: "empty", value: "", wantBad: true},
		{name: "null", value: nil, wantBad: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, reason := coerce(RuleSigned, tt.value)
			if tt.wantBad {
				if reason == "" {
					t.Errorf("coerce(signed, %v) = %q, want rejection", tt.value, got)
				}
				return
			}
			if reason != "" || got != tt.want {
				t.Errorf("coerce(signed, %v) = %q (%s), want %q", tt.value, got, reason, tt.want)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		want    string
		wantErr bool
	}{
		{name: "nil", value: nil, want: ""},
		{name: "trimmed string", value: "  x  ", want: "x"},
		{name: "bool", value: false, want: "false"},
		{name: "int64", value: int64(-12), want: "-12"},
		{name: "float", value: 2.5, want: "2.5"},
		{name: "whole float", value: 3.0, want: "3"},
		{name: "sequence skips empty", value: []any{"a", "", nil, 2}, want: "a, 2"},
		{name: "string slice", value: []string{" a ", "b"}, want: "a, b"},
		{name: "nested record", value: RawRecord{}, wantErr: true},
		{name: "nested map", value: map[string]any{}, wantErr: true},
		{name: "sequence with mapping", value: []any{RawRecord{}}, wantErr: true},
		{name: "unsupported", value: struct{}{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := stringify(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Errorf("stringify(%v) = %q, want error", tt.value, got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("stringify(%v) = %q, %v; want %q", tt.value, got, err, tt.want)
			}
		})
	}
}
