package item2pdf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-item2pdf/internal/assets"
	"github.com/alnah/go-item2pdf/internal/dateutil"
)

// Input describes the item document to convert.
type Input struct {
	Path         string      // .yaml, .yml, or .xlsx file; takes precedence over Raw
	Raw          RawDocument // used when Path is empty
	Title        string      // defaults to the input file's base name
	NoTitle      bool        // suppress the title block
	Date         string      // literal text or "auto", "auto:FORMAT"
	Paper        string      // a4, a5, letter, legal; a4 if empty
	CardsPerPage int         // 0 disables forced page breaks
}

// Output describes where the result goes.
type Output struct {
	Path       string
	KeepSource bool // also write the generated .tex beside the PDF
}

// ConvertResult is returned by a successful conversion.
type ConvertResult struct {
	Result
	Items       int
	Diagnostics []MalformedFieldError // fields skipped during normalization
}

// Converter runs the load, assemble, and render stages.
// Create with NewConverter; a Converter is safe for sequential reuse.
type Converter struct {
	cfg        converterConfig
	binder     Binder
	typesetter Typesetter
	assembler  *Assembler
	renderer   *Renderer
}

// NewConverter creates a Converter. The template is loaded and parsed here,
// so template errors surface before any input is read.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			fields: DefaultFieldSet(),
			passes: 1,
			now:    time.Now,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.fields.Len() == 0 {
		return nil, fmt.Errorf("%w: no fields", ErrInvalidFieldSet)
	}

	if c.binder == nil {
		binder, err := loadTemplateBinder(c.cfg.assetPath, c.cfg.template)
		if err != nil {
			return nil, err
		}
		c.binder = binder
	}

	if c.typesetter == nil {
		if err := ValidateEngine(c.cfg.engine); err != nil {
			return nil, err
		}
		if err := ValidatePasses(c.cfg.passes); err != nil {
			return nil, err
		}
		ts := NewLatexTypesetter(c.cfg.engine)
		ts.Timeout = c.cfg.timeout
		ts.Passes = max(c.cfg.passes, 1)
		c.typesetter = ts
	}

	c.assembler = NewAssembler(NewNormalizer(c.cfg.fields, c.cfg.strict), c.cfg.workers)
	c.renderer = NewRenderer(c.binder, c.typesetter)
	c.renderer.tempDir = c.cfg.tempDir
	c.renderer.now = c.cfg.now

	return c, nil
}

func loadTemplateBinder(assetPath, template string) (*TemplateBinder, error) {
	resolver, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	text, err := resolver.Resolve(template)
	if err != nil {
		if errors.Is(err, assets.ErrTemplateNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
			return nil, fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
		}
		return nil, fmt.Errorf("loading template: %w", err)
	}

	name := template
	if name == "" {
		name = assets.DefaultTemplateName
	}
	return NewTemplateBinder(filepath.Base(name), text)
}

// Assemble loads and normalizes the input without rendering it.
func (c *Converter) Assemble(ctx context.Context, input Input) (*Document, []MalformedFieldError, error) {
	raw, err := c.load(input)
	if err != nil {
		return nil, nil, err
	}

	date, err := dateutil.Resolve(input.Date, c.cfg.now())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	meta := DocumentMeta{
		Title:        c.title(input),
		Date:         date,
		Paper:        Paper(input.Paper),
		CardsPerPage: input.CardsPerPage,
	}
	return c.assembler.Assemble(ctx, raw, meta)
}

// Convert renders the input to output.Path. On a typesetting failure with
// KeepSource set, the returned error is accompanied by a non-nil result
// whose SourcePath names the kept file.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input, output Output) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(output.Path) == "" {
		return nil, fmt.Errorf("%w: empty output path", ErrWrite)
	}

	doc, diags, err := c.Assemble(ctx, input)
	if err != nil {
		return nil, err
	}

	res, err := c.renderer.Render(ctx, doc, output.Path, output.KeepSource)
	if err != nil {
		if res != nil {
			return &ConvertResult{Result: *res, Items: len(doc.Items), Diagnostics: diags}, err
		}
		return nil, err
	}

	return &ConvertResult{Result: *res, Items: len(doc.Items), Diagnostics: diags}, nil
}

func (c *Converter) load(input Input) (RawDocument, error) {
	if input.Path != "" {
		return LoadFile(input.Path)
	}
	if len(input.Raw) == 0 {
		return nil, ErrEmptyDocument
	}
	return input.Raw, nil
}

func (c *Converter) title(input Input) string {
	if input.NoTitle {
		return ""
	}
	if t := strings.TrimSpace(input.Title); t != "" {
		return t
	}
	if input.Path == "" {
		return ""
	}
	base := filepath.Base(input.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
