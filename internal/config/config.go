// Package config loads the CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alnah/go-md2pptx/internal/fileutil"
	"github.com/alnah/go-md2pptx/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// Field length limits.
const (
	MaxNameLength = 100  // institution, instructor
	MaxPathLength = 4096 // directories, logo, theme path
)

// Log levels accepted by logging.level.
const (
	LevelNone   = "none"
	LevelNormal = "normal"
	LevelDebug  = "debug"
)

// appDirName is the directory under the user config dir searched for named configs.
const appDirName = "go-md2pptx"

// Config holds all configuration for deck generation.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Theme   string        `yaml:"theme"` // Theme name or path to a theme file (empty = default)
	Assets  AssetsConfig  `yaml:"assets"`
	Deck    DeckConfig    `yaml:"deck"`
	Logging LoggingConfig `yaml:"logging"`
	Package PackageConfig `yaml:"package"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Custom themes directory (empty = embedded only)
}

// DeckConfig overrides theme values shown on title and closing slides.
type DeckConfig struct {
	Institution string `yaml:"institution"`
	Instructor  string `yaml:"instructor"`
	Logo        string `yaml:"logo"`
}

// LoggingConfig selects console verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"` // none, normal, debug (default: normal)
}

// PackageConfig controls archive post-processing.
type PackageConfig struct {
	FixZip bool `yaml:"fixZip"` // Rewrite without data descriptors for strict readers
}

// Validate checks field values and lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Theme, validation.Length(0, MaxPathLength)),
		validation.Field(&c.Input),
		validation.Field(&c.Output),
		validation.Field(&c.Assets),
		validation.Field(&c.Deck),
		validation.Field(&c.Logging),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return nil
}

// Validate implements validation.Validatable.
func (c InputConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DefaultDir, validation.Length(0, MaxPathLength)),
	)
}

// Validate implements validation.Validatable.
func (c OutputConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DefaultDir, validation.Length(0, MaxPathLength)),
	)
}

// Validate implements validation.Validatable.
func (c AssetsConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BasePath, validation.Length(0, MaxPathLength)),
	)
}

// Validate implements validation.Validatable.
func (c DeckConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Institution, validation.Length(0, MaxNameLength)),
		validation.Field(&c.Instructor, validation.Length(0, MaxNameLength)),
		validation.Field(&c.Logo, validation.Length(0, MaxPathLength)),
	)
}

// Validate implements validation.Validatable.
func (c LoggingConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In(LevelNone, LevelNormal, LevelDebug)),
	)
}

// DefaultConfig returns a neutral configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: LevelNormal},
	}
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

	if fileutil.IsFilePath(nameOrPath) {
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

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LevelNormal
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-md2pptx/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
