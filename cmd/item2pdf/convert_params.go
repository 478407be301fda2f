package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	item2pdf "github.com/alnah/go-item2pdf"
	"github.com/alnah/go-item2pdf/internal/assets"
	"github.com/alnah/go-item2pdf/internal/config"
	"github.com/alnah/go-item2pdf/internal/fileutil"
	"github.com/alnah/go-item2pdf/internal/hints"
)

// maxWorkers caps --workers; normalization is CPU-bound and cheap.
const maxWorkers = 64

// resolveConfig loads the config named by the flag or ITEM2PDF_CONFIG and
// fills its gaps from the environment. Without a name, env.Config is used.
func resolveConfig(flagConfig string, ev *envConfig, env *Environment) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = ev.ConfigPath
	}

	var cfg config.Config
	switch {
	case name != "":
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = *loaded
	case env.Config != nil:
		cfg = *env.Config
	}

	applyEnvConfig(ev, &cfg)
	return &cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Document
	if flags.document.title != "" {
		cfg.Document.Title = flags.document.title
	}
	if flags.document.noTitle {
		cfg.Document.NoTitle = true
	}
	if flags.document.date != "" {
		cfg.Document.Date = flags.document.date
	}
	if flags.document.paper != "" {
		cfg.Document.Paper = flags.document.paper
	}
	if flags.document.perPage != perPageUnset {
		cfg.Document.CardsPerPage = flags.document.perPage
	}

	// Template
	if flags.assets.template != "" {
		cfg.Template.Name = flags.assets.template
	}
	if flags.assets.assetPath != "" {
		cfg.Template.BasePath = flags.assets.assetPath
	}

	// Typesetting
	if flags.typeset.engine != "" {
		cfg.Typesetting.Engine = flags.typeset.engine
	}
	if flags.typeset.timeout != "" {
		cfg.Typesetting.Timeout = flags.typeset.timeout
	}
	if flags.typeset.passes != 0 {
		cfg.Typesetting.Passes = flags.typeset.passes
	}
	if flags.typeset.tex {
		cfg.Typesetting.KeepSource = true
	}
	if flags.typeset.tempDir != "" {
		cfg.Typesetting.TempDir = flags.typeset.tempDir
	}

	mergeNormalizeFlags(flags.normalize, cfg)
}

// mergeNormalizeFlags is shared by convert and check.
func mergeNormalizeFlags(flags normalizeFlags, cfg *config.Config) {
	if flags.strict {
		cfg.Normalize.Strict = true
	}
	if flags.workers != 0 {
		cfg.Normalize.Workers = flags.workers
	}
}

// validateWorkers checks the --workers value before anything else runs.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (max %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// resolveWorkers maps 0 to GOMAXPROCS, which automaxprocs has already
// fitted to the container CPU quota.
func resolveWorkers(n int) int {
	if n > 0 {
		return min(n, maxWorkers)
	}
	return runtime.GOMAXPROCS(0)
}

// buildFieldSet appends the configured fields to the built-in ones.
func buildFieldSet(fields []config.FieldConfig) (item2pdf.KnownFieldSet, error) {
	base := item2pdf.DefaultFieldSet()
	if len(fields) == 0 {
		return base, nil
	}

	extra := make([]item2pdf.KnownField, 0, len(fields))
	for i, f := range fields {
		rule, err := item2pdf.ParseRule(f.Rule)
		if err != nil {
			return item2pdf.KnownFieldSet{}, fmt.Errorf("fields[%d]: %w", i, err)
		}
		absence, err := item2pdf.ParseAbsence(f.Absence)
		if err != nil {
			return item2pdf.KnownFieldSet{}, fmt.Errorf("fields[%d]: %w", i, err)
		}
		label := strings.TrimSpace(f.Label)
		if label == "" {
			label = strings.TrimSpace(f.Key)
		}
		extra = append(extra, item2pdf.KnownField{
			Key:     f.Key,
			Label:   label,
			Aliases: f.Aliases,
			Rule:    rule,
			Absence: absence,
		})
	}

	return base.With(extra...)
}

// buildOptions translates the merged config into converter options.
func buildOptions(cfg *config.Config, env *Environment) ([]item2pdf.Option, error) {
	fields, err := buildFieldSet(cfg.Fields)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.Typesetting.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	passes := cfg.Typesetting.Passes
	if passes == 0 {
		passes = 1
	}

	opts := []item2pdf.Option{
		item2pdf.WithFieldSet(fields),
		item2pdf.WithStrict(cfg.Normalize.Strict),
		item2pdf.WithWorkers(resolveWorkers(cfg.Normalize.Workers)),
		item2pdf.WithTemplate(cfg.Template.Name),
		item2pdf.WithAssetPath(cfg.Template.BasePath),
		item2pdf.WithEngine(cfg.Typesetting.Engine),
		item2pdf.WithTimeout(timeout),
		item2pdf.WithPasses(passes),
		item2pdf.WithTempDir(cfg.Typesetting.TempDir),
	}
	if env.Now != nil {
		opts = append(opts, item2pdf.WithNow(env.Now))
	}
	if env.Typesetter != nil {
		opts = append(opts, item2pdf.WithTypesetter(env.Typesetter))
	}
	return opts, nil
}

// resolvePaths returns the input and output paths from positional args.
// The output defaults to the input with a .pdf extension.
func resolvePaths(args []string) (input, output string, err error) {
	switch len(args) {
	case 0:
		return "", "", fmt.Errorf("%w: missing input file", ErrUsage)
	case 1:
		input = args[0]
		output = fileutil.ReplaceExt(input, ".pdf")
	case 2:
		input, output = args[0], args[1]
	default:
		return "", "", fmt.Errorf("%w: unexpected arguments: %s", ErrUsage, strings.Join(args[2:], " "))
	}

	if !item2pdf.IsSupportedInput(input) {
		return "", "", fmt.Errorf("%w: %s", item2pdf.ErrUnsupportedInput, input)
	}
	if samePath(input, output) {
		return "", "", fmt.Errorf("%w: output %s would overwrite the input", ErrUsage, output)
	}
	return input, output, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// errorHint returns an actionable suffix for err, or "".
func errorHint(err error, cfg *config.Config, keptSource bool) string {
	switch {
	case errors.Is(err, item2pdf.ErrToolchainNotFound):
		engine := ""
		if cfg != nil {
			engine = cfg.Typesetting.Engine
		}
		return hints.ForToolchainNotFound(engine)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, item2pdf.ErrTypesetting):
		return hints.ForTypesetting(keptSource)
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(userConfigPaths())
	case errors.Is(err, item2pdf.ErrTemplateNotFound):
		return hints.ForTemplateNotFound(assets.TemplateNames())
	case errors.Is(err, item2pdf.ErrMalformedField):
		return hints.ForMalformedField(true)
	case errors.Is(err, item2pdf.ErrUnsupportedInput):
		return hints.ForUnsupportedInput()
	case errors.Is(err, item2pdf.ErrWrite):
		return hints.ForOutputDirectory()
	}
	return ""
}

// userConfigPaths lists where a shared config.yaml would be looked up.
func userConfigPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, config.DirName, "config.yaml")}
}
