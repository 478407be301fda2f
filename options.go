package item2pdf

import "time"

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the settings collected from options.
type converterConfig struct {
	fields    KnownFieldSet
	strict    bool
	workers   int
	engine    string
	timeout   time.Duration
	passes    int
	template  string // name or path to a .tex file
	assetPath string
	tempDir   string
	now       func() time.Time
}

// WithFieldSet replaces the default known fields.
func WithFieldSet(fs KnownFieldSet) Option {
	return func(c *Converter) {
		c.cfg.fields = fs
	}
}

// WithStrict makes malformed known fields fail the conversion instead of
// being skipped.
func WithStrict(strict bool) Option {
	return func(c *Converter) {
		c.cfg.strict = strict
	}
}

// WithWorkers sets how many items are normalized concurrently.
// Values below 1 mean serial normalization.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.cfg.workers = n
	}
}

// WithBinder replaces the template binder.
func WithBinder(b Binder) Option {
	return func(c *Converter) {
		c.binder = b
	}
}

// WithTypesetter replaces the LaTeX typesetter. Engine, timeout, and passes
// options are ignored when a typesetter is injected.
func WithTypesetter(ts Typesetter) Option {
	return func(c *Converter) {
		c.typesetter = ts
	}
}

// WithEngine selects the LaTeX engine by name or path.
func WithEngine(engine string) Option {
	return func(c *Converter) {
		c.cfg.engine = engine
	}
}

// WithTimeout bounds each typesetting run. Zero means no limit.
// Panics if d < 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d < 0 {
		panic("item2pdf: WithTimeout duration must not be negative")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithPasses sets how many times the engine runs per document.
func WithPasses(n int) Option {
	return func(c *Converter) {
		c.cfg.passes = n
	}
}

// WithTemplate selects the card template by name or by path to a .tex file.
func WithTemplate(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.template = nameOrPath
	}
}

// WithAssetPath adds a directory searched for templates before the
// built-in ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithTempDir sets the parent directory of render workdirs.
func WithTempDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.tempDir = dir
	}
}

// WithNow sets the clock used for "auto" dates and durations.
func WithNow(now func() time.Time) Option {
	return func(c *Converter) {
		c.cfg.now = now
	}
}
