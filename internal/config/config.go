package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-item2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// DirName is the directory searched under the user config directory.
const DirName = "go-item2pdf"

// Field length limits.
const (
	MaxTitleLength    = 200  // Document title
	MaxDateLength     = 60   // "2025-12-31", "auto:dddd D MMMM YYYY"
	MaxPaperLength    = 10   // "letter", "a4"
	MaxPathLength     = 4096 // Engine, template, and asset paths
	MaxDurationLength = 20   // "90s", "2m30s"
	MaxKeyLength      = 100  // Known field key or alias
	MaxLabelLength    = 100  // Known field label
	MaxRuleLength     = 10   // "signed", "markup"
	MaxAliases        = 32   // Aliases per known field
	MaxFields         = 64   // Extra known fields
)

// Config holds all configuration for card generation.
type Config struct {
	Document    DocumentConfig    `yaml:"document"`
	Template    TemplateConfig    `yaml:"template"`
	Typesetting TypesettingConfig `yaml:"typesetting"`
	Normalize   NormalizeConfig   `yaml:"normalize"`
	Fields      []FieldConfig     `yaml:"fields"`
}

// DocumentConfig defines document-level metadata.
type DocumentConfig struct {
	Title        string `yaml:"title"`        // Empty = input file name
	NoTitle      bool   `yaml:"noTitle"`      // Suppress the title block
	Date         string `yaml:"date"`         // Literal text, "auto", or "auto:FORMAT"
	Paper        string `yaml:"paper"`        // "a4", "a5", "letter", "legal"; empty = "a4"
	CardsPerPage int    `yaml:"cardsPerPage"` // 0 = no forced page breaks
}

// TemplateConfig defines template selection.
type TemplateConfig struct {
	Name     string `yaml:"name"`     // Template name or path to a .tex file (default: "default")
	BasePath string `yaml:"basePath"` // Directory with templates/*.tex; empty = embedded only
}

// TypesettingConfig defines LaTeX engine options.
type TypesettingConfig struct {
	Engine     string `yaml:"engine"`     // "pdflatex", "xelatex", "lualatex", or a path
	Timeout    string `yaml:"timeout"`    // Go duration; empty = no limit
	Passes     int    `yaml:"passes"`     // Engine runs per document (default: 1)
	KeepSource bool   `yaml:"keepSource"` // Write the .tex beside the PDF
	TempDir    string `yaml:"tempDir"`    // Parent of workdirs; empty = system temp dir
}

// NormalizeConfig defines record normalization options.
type NormalizeConfig struct {
	Strict  bool `yaml:"strict"`  // Malformed known fields fail the conversion
	Workers int  `yaml:"workers"` // Concurrent item normalization; 0 = GOMAXPROCS
}

// FieldConfig declares an additional known field.
type FieldConfig struct {
	Key     string   `yaml:"key"`
	Label   string   `yaml:"label"`
	Aliases []string `yaml:"aliases"`
	Rule    string   `yaml:"rule"`    // "text", "signed", "lines", "markup" (default: "text")
	Absence string   `yaml:"absence"` // "omit", "blank" (default: "omit")
}

// Validate checks field lengths and value ranges. Names such as paper sizes,
// engines, and rules are checked when the configuration is applied.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	// Document
	if err := validateFieldLength("document.title", c.Document.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.date", c.Document.Date, MaxDateLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.paper", c.Document.Paper, MaxPaperLength); err != nil {
		return err
	}
	if c.Document.CardsPerPage < 0 {
		return fmt.Errorf("%w: document.cardsPerPage must not be negative, got %d", ErrInvalidValue, c.Document.CardsPerPage)
	}

	// Template
	if err := validateFieldLength("template.name", c.Template.Name, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("template.basePath", c.Template.BasePath, MaxPathLength); err != nil {
		return err
	}

	// Typesetting
	if err := validateFieldLength("typesetting.engine", c.Typesetting.Engine, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("typesetting.timeout", c.Typesetting.Timeout, MaxDurationLength); err != nil {
		return err
	}
	if _, err := c.Typesetting.TimeoutDuration(); err != nil {
		return err
	}
	if c.Typesetting.Passes < 0 {
		return fmt.Errorf("%w: typesetting.passes must not be negative, got %d", ErrInvalidValue, c.Typesetting.Passes)
	}
	if err := validateFieldLength("typesetting.tempDir", c.Typesetting.TempDir, MaxPathLength); err != nil {
		return err
	}

	// Normalize
	if c.Normalize.Workers < 0 {
		return fmt.Errorf("%w: normalize.workers must not be negative, got %d", ErrInvalidValue, c.Normalize.Workers)
	}

	// Fields
	if len(c.Fields) > MaxFields {
		return fmt.Errorf("%w: fields (%d entries, max %d)", ErrFieldTooLong, len(c.Fields), MaxFields)
	}
	for i, f := range c.Fields {
		if err := f.validate(i); err != nil {
			return err
		}
	}

	return nil
}

func (f FieldConfig) validate(i int) error {
	prefix := fmt.Sprintf("fields[%d]", i)
	if strings.TrimSpace(f.Key) == "" {
		return fmt.Errorf("%w: %s.key is required", ErrInvalidValue, prefix)
	}
	if err := validateFieldLength(prefix+".key", f.Key, MaxKeyLength); err != nil {
		return err
	}
	if err := validateFieldLength(prefix+".label", f.Label, MaxLabelLength); err != nil {
		return err
	}
	if len(f.Aliases) > MaxAliases {
		return fmt.Errorf("%w: %s.aliases (%d entries, max %d)", ErrFieldTooLong, prefix, len(f.Aliases), MaxAliases)
	}
	for j, a := range f.Aliases {
		if err := validateFieldLength(fmt.Sprintf("%s.aliases[%d]", prefix, j), a, MaxKeyLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength(prefix+".rule", f.Rule, MaxRuleLength); err != nil {
		return err
	}
	return validateFieldLength(prefix+".absence", f.Absence, MaxRuleLength)
}

// TimeoutDuration parses Timeout. Empty means no limit (zero).
func (t TypesettingConfig) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(t.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(t.Timeout))
	if err != nil {
		return 0, fmt.Errorf("%w: typesetting.timeout %q is not a duration (e.g. 90s, 2m)", ErrInvalidValue, t.Timeout)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: typesetting.timeout must not be negative, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration. Empty values select the
// converter's defaults (a4 paper, pdflatex, one pass, the default template),
// so environment variables can still fill them in.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-item2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, DirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
