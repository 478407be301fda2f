package item2pdf

// Notes:
// - Every Converter here gets a fakeTypesetter through WithTypesetter, so
//   no LaTeX installation is needed. The real engine is exercised by the
//   integration tests.
// - The bound source is read back from fakeTypesetter.sources to check what
//   the template received.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2022, 3, 5, 9, 30, 0, 0, time.UTC)

const lootYAML = `Sword:
  type: Longsword
  attack bonus: 1
  weight: 3 lb
  description: A blade.
Amulet:
  rarity: rare
  ac bonus: lots
`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestConverter(t *testing.T, ts *fakeTypesetter, opts ...Option) *Converter {
	t.Helper()
	base := []Option{WithTypesetter(ts), WithTempDir(t.TempDir()), WithNow(func() time.Time { return fixedNow })}
	conv, err := NewConverter(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return conv
}

// ---------------------------------------------------------------------------
// TestConverter_Convert - End to end with a fake engine
// ---------------------------------------------------------------------------

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	ts := &fakeTypesetter{pages: 2}
	conv := newTestConverter(t, ts)
	in := writeInput(t, "loot.yaml", lootYAML)
	out := filepath.Join(t.TempDir(), "loot.pdf")

	res, err := conv.Convert(context.Background(), Input{Path: in, Date: "auto"}, Output{Path: out})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if res.Items != 2 {
		t.Errorf("Items = %d, want 2", res.Items)
	}
	if res.Pages != 2 {
		t.Errorf("Pages = %d, want 2", res.Pages)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Item != "Amulet" || res.Diagnostics[0].Field != "ac bonus" {
		t.Errorf("Diagnostics = %+v, want one for Amulet.ac bonus", res.Diagnostics)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output missing: %v", err)
	}

	source := ts.sources[0]
	for _, want := range []string{"loot", "2022-03-05", "Type & Longsword", "Attack Bonus & +1", "weight & 3 lb", "Rarity & rare", "A blade."} {
		if !strings.Contains(source, want) {
			t.Errorf("source missing %q", want)
		}
	}
	if strings.Index(source, "Sword") > strings.Index(source, "Amulet") {
		t.Error("items out of document order")
	}
}

func TestConverter_Convert_Title(t *testing.T) {
	t.Parallel()

	in := writeInput(t, "treasure-hoard.yml", "Coin:\n  type: Currency\n")

	tests := []struct {
		name      string
		input     Input
		wantTitle string
	}{
		{"defaults to file name", Input{Path: in}, "treasure-hoard"},
		{"explicit title", Input{Path: in, Title: "Dragon Hoard"}, "Dragon Hoard"},
		{"no title", Input{Path: in, Title: "ignored", NoTitle: true}, ""},
		{"raw input has no default", Input{Raw: entries("Coin")}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := newTestConverter(t, &fakeTypesetter{})
			doc, _, err := conv.Assemble(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}
			if doc.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", doc.Title, tt.wantTitle)
			}
		})
	}
}

func TestConverter_Assemble_Date(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &fakeTypesetter{})

	tests := []struct {
		date string
		want string
	}{
		{"", ""},
		{"Session 12", "Session 12"},
		{"auto", "2022-03-05"},
		{"auto:DD/MM/YYYY", "05/03/2022"},
		{"auto:long", "March 5, 2022"},
	}
	for _, tt := range tests {
		doc, _, err := conv.Assemble(context.Background(), Input{Raw: entries("A"), Date: tt.date})
		if err != nil {
			t.Errorf("Assemble(date %q) error = %v", tt.date, err)
			continue
		}
		if doc.Date != tt.want {
			t.Errorf("Assemble(date %q) Date = %q, want %q", tt.date, doc.Date, tt.want)
		}
	}

	if _, _, err := conv.Assemble(context.Background(), Input{Raw: entries("A"), Date: "auto:"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Assemble(auto:) error = %v, want ErrInvalidDate", err)
	}
}

func TestConverter_Convert_KeepSourceOnFailure(t *testing.T) {
	t.Parallel()

	ts := &fakeTypesetter{err: &TypesettingError{Engine: "pdflatex", ExitCode: 1}}
	conv := newTestConverter(t, ts)
	out := filepath.Join(t.TempDir(), "loot.pdf")

	res, err := conv.Convert(context.Background(), Input{Raw: entries("A")}, Output{Path: out, KeepSource: true})
	if !errors.Is(err, ErrTypesetting) {
		t.Fatalf("Convert() error = %v, want ErrTypesetting", err)
	}
	if res == nil || res.SourcePath == "" {
		t.Fatalf("result = %+v, want kept source path", res)
	}
	if _, err := os.Stat(res.SourcePath); err != nil {
		t.Errorf("kept source missing: %v", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output exists after failure: %v", err)
	}
}

func TestConverter_Convert_Strict(t *testing.T) {
	t.Parallel()

	ts := &fakeTypesetter{}
	conv := newTestConverter(t, ts, WithStrict(true))
	in := writeInput(t, "loot.yaml", lootYAML)

	_, err := conv.Convert(context.Background(), Input{Path: in}, Output{Path: filepath.Join(t.TempDir(), "x.pdf")})
	if !errors.Is(err, ErrMalformedField) {
		t.Fatalf("Convert() error = %v, want ErrMalformedField", err)
	}
	var mErr *MalformedFieldError
	if !errors.As(err, &mErr) || mErr.Item != "Amulet" {
		t.Errorf("error = %v, want MalformedFieldError for Amulet", err)
	}
	if ts.calls() != 0 {
		t.Error("typesetter ran after a normalization failure")
	}
}

func TestConverter_Convert_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dup := writeInput(t, "dup.yaml", "Sword:\n  type: a\nSword:\n  type: b\n")
	dupSpaced := writeInput(t, "dup-spaced.yaml", "Sword:\n  type: a\n\" Sword\":\n  type: b\n")

	tests := []struct {
		name    string
		input   Input
		output  Output
		wantErr error
	}{
		{"empty output path", Input{Raw: entries("A")}, Output{}, ErrWrite},
		{"no input", Input{}, Output{Path: filepath.Join(dir, "a.pdf")}, ErrEmptyDocument},
		{"missing file", Input{Path: filepath.Join(dir, "missing.yaml")}, Output{Path: filepath.Join(dir, "b.pdf")}, ErrReadInput},
		{"unsupported input", Input{Path: filepath.Join(dir, "loot.json")}, Output{Path: filepath.Join(dir, "c.pdf")}, ErrUnsupportedInput},
		{"duplicate names", Input{Path: dup}, Output{Path: filepath.Join(dir, "d.pdf")}, ErrDuplicateName},
		{"duplicate names after trimming", Input{Path: dupSpaced}, Output{Path: filepath.Join(dir, "d2.pdf")}, ErrDuplicateName},
		{"invalid paper", Input{Raw: entries("A"), Paper: "b5"}, Output{Path: filepath.Join(dir, "e.pdf")}, ErrInvalidPaper},
		{"invalid per page", Input{Raw: entries("A"), CardsPerPage: 99}, Output{Path: filepath.Join(dir, "f.pdf")}, ErrInvalidPerPage},
		{"output directory missing", Input{Raw: entries("A")}, Output{Path: filepath.Join(dir, "no", "g.pdf")}, ErrWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := &fakeTypesetter{}
			conv := newTestConverter(t, ts)
			_, err := conv.Convert(context.Background(), tt.input, tt.output)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Convert() error = %v, want %v", err, tt.wantErr)
			}
			if ts.calls() != 0 {
				t.Error("typesetter ran for a failed conversion")
			}
		})
	}
}

func TestConverter_Convert_RecoversPanic(t *testing.T) {
	t.Parallel()

	panicky := BinderFunc(func(*Document) (string, error) { panic("template exploded") })
	conv := newTestConverter(t, &fakeTypesetter{}, WithBinder(panicky))

	_, err := conv.Convert(context.Background(), Input{Raw: entries("A")}, Output{Path: filepath.Join(t.TempDir(), "p.pdf")})
	if err == nil || !strings.Contains(err.Error(), "template exploded") {
		t.Errorf("Convert() error = %v, want recovered panic", err)
	}
}

// ---------------------------------------------------------------------------
// TestNewConverter - Options and template selection
// ---------------------------------------------------------------------------

func TestNewConverter_Errors(t *testing.T) {
	t.Parallel()

	notDir := writeInput(t, "file.txt", "x")

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"empty field set", []Option{WithFieldSet(KnownFieldSet{})}, ErrInvalidFieldSet},
		{"unknown template", []Option{WithTemplate("poster")}, ErrTemplateNotFound},
		{"invalid template name", []Option{WithTemplate("-x")}, ErrTemplateNotFound},
		{"missing template file", []Option{WithTemplate("/nonexistent/cards.tex")}, ErrTemplateNotFound},
		{"asset path missing", []Option{WithAssetPath("/nonexistent/assets")}, ErrInvalidAssetPath},
		{"asset path is a file", []Option{WithAssetPath(notDir)}, ErrInvalidAssetPath},
		{"unsupported engine", []Option{WithEngine("tectonic")}, ErrUnsupportedEngine},
		{"too many passes", []Option{WithPasses(5)}, ErrInvalidPasses},
		{"broken template", []Option{WithTemplate(writeInput(t, "bad.tex", "<< if .Title >>"))}, ErrTemplateRender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewConverter(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewConverter() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewConverter_TemplateSources(t *testing.T) {
	t.Parallel()

	custom := writeInput(t, "cards.tex", `custom << len .Items >>`)

	assetDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(assetDir, "templates"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(assetDir, "templates", "default.tex"), []byte(`override << .Title >>`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"template file", []Option{WithTemplate(custom)}, "custom 1"},
		{"asset path overrides built-in", []Option{WithAssetPath(assetDir)}, "override T"},
		{"asset path falls back to built-in", []Option{WithAssetPath(assetDir), WithTemplate("compact")}, `\documentclass`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := &fakeTypesetter{}
			conv := newTestConverter(t, ts, tt.opts...)
			if _, err := conv.Convert(context.Background(), Input{Raw: entries("A"), Title: "T"}, Output{Path: filepath.Join(t.TempDir(), "o.pdf")}); err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if !strings.HasPrefix(ts.sources[0], tt.want) {
				t.Errorf("source = %.40q, want prefix %q", ts.sources[0], tt.want)
			}
		})
	}
}

func TestNewConverter_Defaults(t *testing.T) {
	t.Parallel()

	conv, err := NewConverter()
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	ts, ok := conv.typesetter.(*LatexTypesetter)
	if !ok {
		t.Fatalf("typesetter = %T, want *LatexTypesetter", conv.typesetter)
	}
	if ts.engine() != DefaultEngine || ts.Passes != 1 || ts.Timeout != 0 {
		t.Errorf("typesetter = engine %q, passes %d, timeout %v", ts.engine(), ts.Passes, ts.Timeout)
	}
}

func TestWithTimeout_PanicsOnNegative(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(-1) did not panic")
		}
	}()
	WithTimeout(-time.Second)
}
