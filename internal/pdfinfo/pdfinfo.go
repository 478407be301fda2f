// Package pdfinfo inspects PDF files produced by the typesetting engine.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"
)

// Sentinel errors for PDF inspection.
var (
	ErrNotPDF    = errors.New("pdfinfo: not a PDF file")
	ErrMalformed = errors.New("pdfinfo: malformed PDF")
)

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// Info summarizes a PDF document.
type Info struct {
	Version string // header version, e.g. "1.5"
	Pages   int
}

// InspectFile reads the PDF at path.
func InspectFile(path string) (*Info, error) {
	f, err := os.Open(path) // #nosec G304 -- path is produced by the renderer
	if err != nil {
		return nil, fmt.Errorf("pdfinfo: %w", err)
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("pdfinfo: %w", err)
	}
	return inspect(f, st.Size())
}

// Inspect reads a PDF held in memory.
func Inspect(data []byte) (*Info, error) {
	return inspect(bytes.NewReader(data), int64(len(data)))
}

func inspect(r io.ReaderAt, size int64) (info *Info, err error) {
	head := make([]byte, 16)
	n, _ := r.ReadAt(head, 0)
	head = head[:n]
	if !bytes.HasPrefix(head, pdfMagic) {
		return nil, ErrNotPDF
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if p := recover(); p != nil {
			info, err = nil, fmt.Errorf("%w: %v", ErrMalformed, p)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return &Info{
		Version: headerVersion(head),
		Pages:   reader.NumPage(),
	}, nil
}

// headerVersion extracts "1.5" from "%PDF-1.5\n...".
func headerVersion(head []byte) string {
	v := head[len(pdfMagic):]
	if i := bytes.IndexAny(v, "\r\n %"); i >= 0 {
		v = v[:i]
	}
	return string(v)
}
