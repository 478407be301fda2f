package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	item2pdf "github.com/alnah/go-item2pdf"
	"github.com/alnah/go-item2pdf/internal/assets"
	"github.com/alnah/go-item2pdf/internal/fileutil"
	"github.com/alnah/go-item2pdf/internal/hints"
)

// doctorVersionTimeout bounds "engine --version".
const doctorVersionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string         `json:"status"` // "ready", "warnings", "errors"
	Engine    engineInfo     `json:"engine"`
	Templates []templateInfo `json:"templates"`
	Env       envInfo        `json:"environment"`
	System    systemInfo     `json:"system"`
	Warnings  []string       `json:"warnings,omitempty"`
	Errors    []string       `json:"errors,omitempty"`
}

// engineInfo holds LaTeX engine detection results.
type engineInfo struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// templateInfo reports whether a built-in template loads.
type templateInfo struct {
	Name string `json:"name"`
	OK   bool   `json:"ok"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Container bool   `json:"container"`
	CI        bool   `json:"ci"`
	Engine    string `json:"item2pdf_engine"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(ctx, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, env *Environment) *doctorResult {
	engine := os.Getenv("ITEM2PDF_ENGINE")
	if env.Config != nil && env.Config.Typesetting.Engine != "" {
		engine = env.Config.Typesetting.Engine
	}

	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:     runtime.GOOS,
			Arch:   runtime.GOARCH,
			Engine: engine,
		},
	}

	checkEngine(ctx, result, engine, env)
	checkTemplates(result, env.AssetLoader)
	checkEnvironment(result)
	checkSystem(result, env)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkEngine locates the LaTeX engine and asks for its version.
func checkEngine(ctx context.Context, result *doctorResult, engine string, env *Environment) {
	ts := item2pdf.NewLatexTypesetter(engine)
	if env.LookPath != nil {
		ts.LookPath = env.LookPath
	}
	if env.Runner != nil {
		ts.Runner = env.Runner
	}
	result.Engine.Name = engine
	if result.Engine.Name == "" {
		result.Engine.Name = item2pdf.DefaultEngine
	}

	path, err := ts.Resolve()
	if err != nil {
		result.Errors = append(result.Errors, err.Error()+hints.ForToolchainNotFound(engine))
		return
	}
	result.Engine.Found = true
	result.Engine.Path = path

	ctx, cancel := context.WithTimeout(ctx, doctorVersionTimeout)
	defer cancel()
	version, err := ts.Version(ctx)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get %s version: %v", result.Engine.Name, err))
		return
	}
	result.Engine.Version = version
}

// checkTemplates loads every built-in template.
func checkTemplates(result *doctorResult, loader assets.AssetLoader) {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	for _, name := range assets.TemplateNames() {
		_, err := loader.LoadTemplate(name)
		result.Templates = append(result.Templates, templateInfo{Name: name, OK: err == nil})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Template %s: %v", name, err))
		}
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container = hints.IsInContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// checkSystem verifies the workdir parent accepts new files.
func checkSystem(result *doctorResult, env *Environment) {
	dir := os.TempDir()
	if env.Config != nil && env.Config.Typesetting.TempDir != "" {
		dir = env.Config.Typesetting.TempDir
	}
	result.System.TempDir = dir

	if err := fileutil.EnsureWritableDir(dir); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %v", err))
		return
	}
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "item2pdf doctor")
	fmt.Fprintln(w)

	// Engine section
	fmt.Fprintln(w, "LaTeX engine")
	if r.Engine.Found {
		fmt.Fprintf(w, "  [OK] %s found at %s\n", r.Engine.Name, r.Engine.Path)
		if r.Engine.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Engine.Version)
		}
	} else {
		fmt.Fprintf(w, "  [ERROR] %s not found\n", r.Engine.Name)
	}
	fmt.Fprintln(w)

	// Templates section
	fmt.Fprintln(w, "Templates")
	for _, t := range r.Templates {
		if t.OK {
			fmt.Fprintf(w, "  [OK] %s\n", t.Name)
		} else {
			fmt.Fprintf(w, "  [ERROR] %s\n", t.Name)
		}
	}
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintf(w, "  [OK] Temp directory: %s writable\n", r.System.TempDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Temp directory: %s not writable\n", r.System.TempDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
