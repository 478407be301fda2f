package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alnah/go-item2pdf/internal/config"
)

// envPrefix marks the variables read by item2pdf.
const envPrefix = "ITEM2PDF_"

// dotEnvFile is loaded from the working directory before variables are read.
const dotEnvFile = ".env"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // ITEM2PDF_CONFIG: config file name or path
	Engine     string        // ITEM2PDF_ENGINE: pdflatex, xelatex, lualatex, or a path
	Timeout    time.Duration // ITEM2PDF_TIMEOUT: engine timeout

	// Tier 2 - Document
	Template string // ITEM2PDF_TEMPLATE: template name or .tex path
	Paper    string // ITEM2PDF_PAPER: a4, a5, letter, legal
	Date     string // ITEM2PDF_DATE: literal, "auto", or "auto:FORMAT"

	// Tier 3 - Extended
	TempDir string // ITEM2PDF_TEMP_DIR: parent of engine workdirs
	Workers int    // ITEM2PDF_WORKERS: concurrent item normalization
}

// knownEnvVars lists valid ITEM2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"ITEM2PDF_CONFIG":  true,
	"ITEM2PDF_ENGINE":  true,
	"ITEM2PDF_TIMEOUT": true,
	// Tier 2 - Document
	"ITEM2PDF_TEMPLATE": true,
	"ITEM2PDF_PAPER":    true,
	"ITEM2PDF_DATE":     true,
	// Tier 3 - Extended
	"ITEM2PDF_TEMP_DIR": true,
	"ITEM2PDF_WORKERS":  true,
}

// loadDotEnv loads a .env file without overriding variables that are
// already set. A missing file is not an error.
func loadDotEnv(path string, w io.Writer) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(w, "warning: ignoring %s: %v\n", path, err)
	}
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized ITEM2PDF_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("ITEM2PDF_CONFIG"),
		Engine:     os.Getenv("ITEM2PDF_ENGINE"),
		// Tier 2
		Template: os.Getenv("ITEM2PDF_TEMPLATE"),
		Paper:    os.Getenv("ITEM2PDF_PAPER"),
		Date:     os.Getenv("ITEM2PDF_DATE"),
		// Tier 3
		TempDir: os.Getenv("ITEM2PDF_TEMP_DIR"),
	}

	// Parse duration for timeout
	if timeout := os.Getenv("ITEM2PDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	// Parse int for workers
	if workers := os.Getenv("ITEM2PDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized ITEM2PDF_* variables.
// Helps catch typos like ITEM2PDF_ENGIN instead of ITEM2PDF_ENGINE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero,
// so env vars fill the gaps a config file leaves.
// Resulting order: CLI flags > config file > env vars > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1 - Typesetting
	if env.Engine != "" && cfg.Typesetting.Engine == "" {
		cfg.Typesetting.Engine = env.Engine
	}
	if env.Timeout > 0 && cfg.Typesetting.Timeout == "" {
		cfg.Typesetting.Timeout = env.Timeout.String()
	}

	// Tier 2 - Document
	if env.Template != "" && cfg.Template.Name == "" {
		cfg.Template.Name = env.Template
	}
	if env.Paper != "" && cfg.Document.Paper == "" {
		cfg.Document.Paper = env.Paper
	}
	if env.Date != "" && cfg.Document.Date == "" {
		cfg.Document.Date = env.Date
	}

	// Tier 3 - Extended
	if env.TempDir != "" && cfg.Typesetting.TempDir == "" {
		cfg.Typesetting.TempDir = env.TempDir
	}
	if env.Workers > 0 && cfg.Normalize.Workers == 0 {
		cfg.Normalize.Workers = env.Workers
	}
}
