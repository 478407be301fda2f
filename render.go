package item2pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-item2pdf/internal/fileutil"
	"github.com/alnah/go-item2pdf/internal/pdfinfo"
)

// sourceName is the file the engine compiles inside the workdir.
const sourceName = "cards.tex"

// Output file modes.
const (
	outputPerm = 0o644
	sourcePerm = 0o600
)

// Renderer binds a Document and typesets it into a PDF. Every run uses its
// own temporary workdir, removed when Render returns.
type Renderer struct {
	binder     Binder
	typesetter Typesetter
	tempDir    string // parent of workdirs; os.TempDir() if empty
	now        func() time.Time
}

// NewRenderer creates a Renderer.
func NewRenderer(b Binder, ts Typesetter) *Renderer {
	return &Renderer{binder: b, typesetter: ts, now: time.Now}
}

// SourcePathFor returns where the kept .tex file goes for an output path.
func SourcePathFor(outputPath string) string {
	p := fileutil.ReplaceExt(outputPath, ".tex")
	if p == outputPath {
		return outputPath + ".tex"
	}
	return p
}

// Render writes the PDF for doc to outputPath, replacing any existing file.
// The output path is only written once typesetting has succeeded. With
// keepIntermediate, the generated source is copied beside the output before
// the engine runs, so it is available when typesetting fails.
func (r *Renderer) Render(ctx context.Context, doc *Document, outputPath string, keepIntermediate bool) (*Result, error) {
	start := r.now()

	if err := checkOutputPath(outputPath); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := r.binder.Bind(doc)
	if err != nil {
		return nil, err
	}

	workdir, err := os.MkdirTemp(r.tempDir, "item2pdf-*")
	if err != nil {
		return nil, fmt.Errorf("creating workdir: %w", err)
	}
	defer func() { _ = os.RemoveAll(workdir) }()

	if err := os.WriteFile(filepath.Join(workdir, sourceName), []byte(source), sourcePerm); err != nil {
		return nil, fmt.Errorf("writing %s: %w", sourceName, err)
	}

	result := &Result{OutputPath: outputPath}
	if keepIntermediate {
		result.SourcePath = SourcePathFor(outputPath)
		if err := fileutil.WriteFileAtomic(result.SourcePath, []byte(source), outputPerm); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}

	pdfPath, err := r.typesetter.Typeset(ctx, workdir, sourceName)
	if err != nil {
		return result, err
	}

	// The page count is informational.
	if info, err := pdfinfo.InspectFile(pdfPath); err == nil {
		result.Pages = info.Pages
	}

	if err := fileutil.MoveFile(pdfPath, outputPath, outputPerm); err != nil {
		return result, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	result.Duration = r.now().Sub(start)
	return result, nil
}

// checkOutputPath fails fast when the PDF could not be written.
func checkOutputPath(outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("%w: empty output path", ErrWrite)
	}
	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrWrite, outputPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := fileutil.EnsureWritableDir(filepath.Dir(outputPath)); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
