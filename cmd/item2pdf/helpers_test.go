package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	item2pdf "github.com/alnah/go-item2pdf"
	"github.com/alnah/go-item2pdf/internal/assets"
	"github.com/alnah/go-item2pdf/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake typesetter and environment
// ---------------------------------------------------------------------------

// fakeTypesetter writes a placeholder PDF next to the source, or fails with err.
type fakeTypesetter struct {
	mu      sync.Mutex
	err     error
	sources []string
}

func (f *fakeTypesetter) Typeset(_ context.Context, workdir, source string) (string, error) {
	data, err := os.ReadFile(filepath.Join(workdir, source))
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.sources = append(f.sources, string(data))
	f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	pdf := filepath.Join(workdir, strings.TrimSuffix(source, ".tex")+".pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4 fake\n"), 0o600); err != nil {
		return "", err
	}
	return pdf, nil
}

func (f *fakeTypesetter) lastSource() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sources) == 0 {
		return ""
	}
	return f.sources[len(f.sources)-1]
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	ts     *fakeTypesetter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	var stdout, stderr bytes.Buffer
	ts := &fakeTypesetter{}
	return &testEnv{
		Environment: &Environment{
			Now:         func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) },
			Stdout:      &stdout,
			Stderr:      &stderr,
			AssetLoader: assets.NewEmbeddedLoader(),
			Config:      config.DefaultConfig(),
			Typesetter:  ts,
		},
		stdout: &stdout,
		stderr: &stderr,
		ts:     ts,
	}
}

// writeFile creates name under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

const hoardYAML = `Sword of Answering:
  type: Longsword
  rarity: legendary
  attack bonus: 3
  description: |
    Asks a \textbf{question} & answers it.
Shield:
  AC bonus: two
  weight: 6 lb
Rope:
`

// Compile-time interface check.
var _ item2pdf.Typesetter = (*fakeTypesetter)(nil)
