package item2pdf

import (
	"bytes"
	"fmt"
	"text/template"
)

// Template delimiters. LaTeX uses braces heavily, so {{ }} would collide
// with group syntax such as {{\bfseries x}}.
const (
	leftDelim  = "<<"
	rightDelim = ">>"
)

// Binder renders a Document into typesetting source.
type Binder interface {
	Bind(doc *Document) (string, error)
}

// BinderFunc adapts a plain function to the Binder interface.
type BinderFunc func(doc *Document) (string, error)

// Bind calls f(doc).
func (f BinderFunc) Bind(doc *Document) (string, error) { return f(doc) }

// TemplateBinder binds documents with a text/template using << >> delimiters.
// Values in the Document are already escaped, so the template inserts them
// verbatim.
type TemplateBinder struct {
	tmpl *template.Template
}

// templateFuncs are available to card templates.
var templateFuncs = template.FuncMap{
	"escape": EscapeText,
	"inc":    func(i int) int { return i + 1 },
}

// NewTemplateBinder parses a card template. The template receives a
// *Document as its data.
func NewTemplateBinder(name, text string) (*TemplateBinder, error) {
	tmpl, err := template.New(name).
		Delims(leftDelim, rightDelim).
		Funcs(templateFuncs).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplateRender, name, err)
	}
	return &TemplateBinder{tmpl: tmpl}, nil
}

// Bind executes the template for doc.
func (b *TemplateBinder) Bind(doc *Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("%w: nil document", ErrTemplateRender)
	}
	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

// Compile-time interface checks.
var (
	_ Binder = (*TemplateBinder)(nil)
	_ Binder = BinderFunc(nil)
)
