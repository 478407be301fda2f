package item2pdf

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-item2pdf/internal/process"
)

// DefaultEngine is the LaTeX engine used when none is configured.
const DefaultEngine = "pdflatex"

// supportedEngines are the engines that produce PDF directly.
var supportedEngines = []string{"pdflatex", "xelatex", "lualatex"}

// maxPasses bounds repeated engine runs.
const maxPasses = 3

// engineArgs make the engine fail fast instead of waiting for terminal input.
var engineArgs = []string{
	"-interaction=nonstopmode",
	"-halt-on-error",
	"-file-line-error",
	"-no-shell-escape",
}

// Typesetter turns a source file inside workdir into a PDF and returns the
// PDF's path.
type Typesetter interface {
	Typeset(ctx context.Context, workdir, source string) (string, error)
}

// CommandRunner abstracts command execution to enable testing without real
// subprocesses. A non-zero exit is reported through exitCode, not err; err is
// reserved for commands that could not run or were cancelled.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (output string, exitCode int, err error)
}

// ExecRunner implements CommandRunner using os/exec. The command runs in its
// own process group, which is killed when ctx is done.
type ExecRunner struct{}

// Run starts name in dir and waits for it to exit or for ctx to end.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, int, error) {
	cmd := exec.Command(name, args...) // #nosec G204 -- engine validated by ValidateEngine
	cmd.Dir = dir
	// Unwrapped log lines keep file:line:error messages intact.
	cmd.Env = append(os.Environ(), "max_print_line=1000")

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	process.Isolate(cmd)

	if err := cmd.Start(); err != nil {
		return "", -1, fmt.Errorf("starting %s: %w", name, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out.String(), exitErr.ExitCode(), nil
		}
		if err != nil {
			return out.String(), -1, err
		}
		return out.String(), 0, nil
	case <-ctx.Done():
		if err := process.KillProcessGroup(cmd.Process.Pid); err != nil {
			_ = cmd.Process.Kill()
		}
		<-done
		return out.String(), -1, ctx.Err()
	}
}

// LatexTypesetter runs a LaTeX engine on the source file.
type LatexTypesetter struct {
	Engine   string        // engine name or path; DefaultEngine if empty
	Timeout  time.Duration // 0 means no limit
	Passes   int           // engine runs per document; 1 if zero
	Runner   CommandRunner
	LookPath func(file string) (string, error)
}

// NewLatexTypesetter creates a LatexTypesetter with a real command runner.
func NewLatexTypesetter(engine string) *LatexTypesetter {
	return &LatexTypesetter{
		Engine:   engine,
		Passes:   1,
		Runner:   &ExecRunner{},
		LookPath: exec.LookPath,
	}
}

// ValidateEngine checks that engine names a supported LaTeX engine, either
// bare or as a path to the executable.
func ValidateEngine(engine string) error {
	if engine == "" {
		return nil
	}
	base := strings.TrimSuffix(strings.ToLower(filepath.Base(engine)), ".exe")
	for _, e := range supportedEngines {
		if base == e {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (must be one of %s)", ErrUnsupportedEngine, engine, strings.Join(supportedEngines, ", "))
}

// ValidatePasses checks the number of engine runs.
func ValidatePasses(n int) error {
	if n < 0 || n > maxPasses {
		return fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidPasses, n, maxPasses)
	}
	return nil
}

func (t *LatexTypesetter) engine() string {
	if t.Engine == "" {
		return DefaultEngine
	}
	return t.Engine
}

// Resolve locates the engine executable.
func (t *LatexTypesetter) Resolve() (string, error) {
	if err := ValidateEngine(t.Engine); err != nil {
		return "", err
	}
	lookPath := t.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(t.engine())
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolchainNotFound, t.engine())
	}
	return path, nil
}

// Version returns the first line of the engine's --version output.
func (t *LatexTypesetter) Version(ctx context.Context) (string, error) {
	path, err := t.Resolve()
	if err != nil {
		return "", err
	}
	out, code, err := t.runner().Run(ctx, "", path, "--version")
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", &TypesettingError{Engine: t.engine(), ExitCode: code, Output: out}
	}
	return firstLine(out), nil
}

func (t *LatexTypesetter) runner() CommandRunner {
	if t.Runner == nil {
		return &ExecRunner{}
	}
	return t.Runner
}

// Typeset runs the engine Passes times on source inside workdir and returns
// the path of the produced PDF. A non-zero exit stops immediately with a
// *TypesettingError; there is no retry.
func (t *LatexTypesetter) Typeset(ctx context.Context, workdir, source string) (string, error) {
	if err := ValidatePasses(t.Passes); err != nil {
		return "", err
	}
	path, err := t.Resolve()
	if err != nil {
		return "", err
	}

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	args := append(append([]string(nil), engineArgs...), source)
	passes := max(t.Passes, 1)

	for pass := 1; pass <= passes; pass++ {
		out, code, err := t.runner().Run(ctx, workdir, path, args...)
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", fmt.Errorf("%w: %s did not finish within %s: %w", ErrTypesetting, t.engine(), t.Timeout, ctx.Err())
			}
			if ctx.Err() != nil {
				return "", fmt.Errorf("typesetting cancelled: %w", ctx.Err())
			}
			return "", fmt.Errorf("%w: %v", ErrTypesetting, err)
		}
		if code != 0 {
			return "", &TypesettingError{Engine: t.engine(), ExitCode: code, Output: out}
		}
	}

	pdfPath := filepath.Join(workdir, strings.TrimSuffix(source, filepath.Ext(source))+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("%w: %s produced no PDF", ErrTypesetting, t.engine())
	}
	return pdfPath, nil
}

// firstLine returns the first non-empty line of s.
func firstLine(s string) string {
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line
		}
	}
	return ""
}

// Compile-time interface checks.
var (
	_ Typesetter    = (*LatexTypesetter)(nil)
	_ CommandRunner = (*ExecRunner)(nil)
)
