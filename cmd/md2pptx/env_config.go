package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-md2pptx/internal/config"
)

// envPrefix starts every recognized environment variable.
const envPrefix = "MD2PPTX_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MD2PPTX_CONFIG: config file path
	Theme      string        // MD2PPTX_THEME: theme name or path
	AssetPath  string        // MD2PPTX_ASSET_PATH: custom asset directory
	Timeout    time.Duration // MD2PPTX_TIMEOUT: per-deck timeout

	InputDir  string // MD2PPTX_INPUT_DIR: default input directory
	OutputDir string // MD2PPTX_OUTPUT_DIR: default output directory
	Workers   int    // MD2PPTX_WORKERS: parallel workers

	Institution string // MD2PPTX_INSTITUTION
	Instructor  string // MD2PPTX_INSTRUCTOR
	Logo        string // MD2PPTX_LOGO: logo image path
	LogLevel    string // MD2PPTX_LOG_LEVEL: none, normal, debug
}

// knownEnvVars lists valid MD2PPTX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2PPTX_CONFIG":      true,
	"MD2PPTX_THEME":       true,
	"MD2PPTX_ASSET_PATH":  true,
	"MD2PPTX_TIMEOUT":     true,
	"MD2PPTX_INPUT_DIR":   true,
	"MD2PPTX_OUTPUT_DIR":  true,
	"MD2PPTX_WORKERS":     true,
	"MD2PPTX_INSTITUTION": true,
	"MD2PPTX_INSTRUCTOR":  true,
	"MD2PPTX_LOGO":        true,
	"MD2PPTX_LOG_LEVEL":   true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable durations and counts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:  getenv("MD2PPTX_CONFIG"),
		Theme:       getenv("MD2PPTX_THEME"),
		AssetPath:   getenv("MD2PPTX_ASSET_PATH"),
		InputDir:    getenv("MD2PPTX_INPUT_DIR"),
		OutputDir:   getenv("MD2PPTX_OUTPUT_DIR"),
		Institution: getenv("MD2PPTX_INSTITUTION"),
		Instructor:  getenv("MD2PPTX_INSTRUCTOR"),
		Logo:        getenv("MD2PPTX_LOGO"),
		LogLevel:    getenv("MD2PPTX_LOG_LEVEL"),
	}

	if timeout := getenv("MD2PPTX_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("MD2PPTX_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// unknownEnvVars returns the unrecognized MD2PPTX_* variable names in environ.
func unknownEnvVars(environ []string) []string {
	var unknown []string
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// warnUnknownEnvVars writes a warning for each unrecognized MD2PPTX_* variable.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, name := range unknownEnvVars(environ) {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig fills config values left empty by the config file.
// The log level is taken from the environment unless the file set one
// other than normal.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Theme != "" && cfg.Theme == "" {
		cfg.Theme = env.Theme
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}

	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}

	if env.Institution != "" && cfg.Deck.Institution == "" {
		cfg.Deck.Institution = env.Institution
	}
	if env.Instructor != "" && cfg.Deck.Instructor == "" {
		cfg.Deck.Instructor = env.Instructor
	}
	if env.Logo != "" && cfg.Deck.Logo == "" {
		cfg.Deck.Logo = env.Logo
	}

	// The default config already says "normal"; the env var wins over it
	// but not over an explicit file value.
	if env.LogLevel != "" && (cfg.Logging.Level == "" || cfg.Logging.Level == config.LevelNormal) {
		cfg.Logging.Level = env.LogLevel
	}
}
