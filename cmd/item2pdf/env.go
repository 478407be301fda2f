package main

import (
	"io"
	"os"
	"os/exec"
	"time"

	item2pdf "github.com/alnah/go-item2pdf"
	"github.com/alnah/go-item2pdf/internal/assets"
	"github.com/alnah/go-item2pdf/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, configuration, asset loading, and the toolchain.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	AssetLoader assets.AssetLoader
	Config      *config.Config // Loaded once per command

	// Typesetter replaces the LaTeX engine when set.
	Typesetter item2pdf.Typesetter
	// LookPath and Runner back the engine checks in doctor.
	LookPath func(file string) (string, error)
	Runner   item2pdf.CommandRunner
}

// DefaultEnv returns production environment with embedded assets.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		AssetLoader: assets.NewEmbeddedLoader(),
		Config:      config.DefaultConfig(),
		LookPath:    exec.LookPath,
		Runner:      &item2pdf.ExecRunner{},
	}
}
