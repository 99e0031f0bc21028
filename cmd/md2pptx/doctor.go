package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"

	md2pptx "github.com/alnah/go-md2pptx"
	"github.com/alnah/go-md2pptx/internal/config"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"`
	Themes   []themeInfo `json:"themes"`
	Config   configInfo  `json:"config"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// themeInfo is the load result of one built-in theme.
type themeInfo struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// configInfo describes the config a conversion would use.
type configInfo struct {
	Source string `json:"source"` // "defaults", or the name that was loaded
	Theme  string `json:"theme,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string   `json:"os"`
	Arch          string   `json:"arch"`
	GOMAXPROCS    int      `json:"gomaxprocs"`
	Container     bool     `json:"container"`
	ContainerHint string   `json:"container_hint,omitempty"`
	CI            bool     `json:"ci"`
	UnknownVars   []string `json:"unknown_vars,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable   bool   `json:"temp_writable"`
	OutputDir      string `json:"output_dir,omitempty"`
	OutputWritable bool   `json:"output_writable,omitempty"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	configName := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--json":
			jsonOutput = true
		case "-c", "--config":
			if i+1 < len(args) {
				configName = args[i+1]
				i++
			}
		}
	}

	result := runDoctor(configName, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(configName string, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			GOMAXPROCS: runtime.GOMAXPROCS(0),
		},
	}

	envCfg := loadEnvConfig(env.getenv)
	cfg := checkConfig(result, configName, envCfg)
	checkThemes(result, cfg)
	checkEnvironment(result, env)
	checkSystem(result, cfg)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkConfig loads the config the way convert does. A named config that
// fails to load is an error; the defaults are used for the other checks.
func checkConfig(result *doctorResult, configName string, envCfg *envConfig) *config.Config {
	cfg, err := loadConfig(configName, envCfg)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		cfg = config.DefaultConfig()
	}
	applyEnvConfig(envCfg, cfg)

	result.Config.Source = "defaults"
	if name := firstNonEmpty(configName, envCfg.ConfigPath); name != "" && err == nil {
		result.Config.Source = name
	}
	result.Config.Theme = cfg.Theme

	if err := cfg.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
	return cfg
}

// checkThemes loads every built-in theme and the configured one.
func checkThemes(result *doctorResult, cfg *config.Config) {
	names := md2pptx.ListThemes()
	if cfg.Theme != "" && !slices.Contains(names, cfg.Theme) {
		names = append(names, cfg.Theme)
	}

	for _, name := range names {
		info := themeInfo{Name: name, OK: true}
		if _, err := md2pptx.LoadStyle(name, cfg.Assets.BasePath); err != nil {
			info.OK = false
			info.Error = err.Error()
			result.Errors = append(result.Errors, fmt.Sprintf("theme %q: %v", name, err))
		}
		result.Themes = append(result.Themes, info)
	}
}

// checkEnvironment detects container and CI environments and MD2PPTX_*
// variables that would be ignored.
func checkEnvironment(result *doctorResult, env *Environment) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if env.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	result.Env.UnknownVars = unknownEnvVars(env.environ())
	for _, name := range result.Env.UnknownVars {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown environment variable %s (typo?)", name))
	}
}

// isContainer detects if running in a container environment.
// Returns the signal that was detected as a hint.
func isContainer(env *Environment) (bool, string) {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := env.getenv("container"); v != "" {
		return true, "container=" + v
	}
	if env.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies that temp files and decks can be written.
func checkSystem(result *doctorResult, cfg *config.Config) {
	if dirWritable(os.TempDir()) {
		result.System.TempWritable = true
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("temp directory not writable: %s", os.TempDir()))
	}

	if dir := cfg.Output.DefaultDir; dir != "" {
		result.System.OutputDir = dir
		switch {
		case !isDir(dir):
			result.Warnings = append(result.Warnings, fmt.Sprintf("output directory does not exist yet: %s", dir))
		case dirWritable(dir):
			result.System.OutputWritable = true
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("output directory not writable: %s", dir))
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// dirWritable reports whether a file can be created in dir.
func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".md2pptx-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2pptx doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Themes")
	for _, th := range r.Themes {
		if th.OK {
			fmt.Fprintf(w, "  [OK] %s\n", th.Name)
		} else {
			fmt.Fprintf(w, "  [ERROR] %s: %s\n", th.Name, th.Error)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	fmt.Fprintf(w, "  [OK] Source: %s\n", r.Config.Source)
	if r.Config.Theme != "" {
		fmt.Fprintf(w, "  [OK] Theme: %s\n", r.Config.Theme)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] GOMAXPROCS: %d\n", r.Env.GOMAXPROCS)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.OutputWritable {
		fmt.Fprintf(w, "  [OK] Output directory: %s\n", r.System.OutputDir)
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

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
