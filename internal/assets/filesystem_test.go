package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeTemplate creates {dir}/templates/{name}.tex.
func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	tplDir := filepath.Join(dir, "templates")
	if err := os.MkdirAll(tplDir, 0o755); err != nil {
		t.Fatalf("failed to create templates dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tplDir, name+templateExt), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if loader.BasePath() == "" {
			t.Error("BasePath() is empty")
		}
	})

	t.Run("empty path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(\"\") error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(filePath, []byte("test"), 0o644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		_, err := NewFilesystemLoader(filePath)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	t.Run("loads existing template", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTemplate(t, dir, "mine", `\documentclass{article}`)

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		got, err := loader.LoadTemplate("mine")
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if got != `\documentclass{article}` {
			t.Errorf("LoadTemplate() = %q, want %q", got, `\documentclass{article}`)
		}
	})

	t.Run("missing template returns ErrTemplateNotFound", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		_, err = loader.LoadTemplate("nonexistent")
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("LoadTemplate() error = %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("invalid name returns ErrInvalidAssetName", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		_, err = loader.LoadTemplate("../../etc/passwd")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadTemplate() error = %v, want ErrInvalidAssetName", err)
		}
	})

	t.Run("symlink escaping base returns ErrPathTraversal", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("symlinks require privileges on windows")
		}

		outside := filepath.Join(t.TempDir(), "secret.tex")
		if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
			t.Fatalf("failed to write outside file: %v", err)
		}

		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.Symlink(outside, filepath.Join(dir, "templates", "evil.tex")); err != nil {
			t.Fatalf("failed to create symlink: %v", err)
		}

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		_, err = loader.LoadTemplate("evil")
		if !errors.Is(err, ErrPathTraversal) {
			t.Errorf("LoadTemplate() error = %v, want ErrPathTraversal", err)
		}
	})
}
