package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	md2pptx "github.com/alnah/go-md2pptx"
	"github.com/alnah/go-md2pptx/internal/config"
	"github.com/alnah/go-md2pptx/internal/fileutil"
	"github.com/alnah/go-md2pptx/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput        = errors.New("no input specified")
	ErrInvalidFlags   = errors.New("invalid flags")
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrLogoNotFound   = errors.New("logo not found")
)

// runConvertCmd parses convert flags and runs the conversion.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	return runConvert(ctx, positional, flags, env)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig(env.getenv)
	warnUnknownEnvVars(env.Stderr, env.environ())

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg)
	if err != nil {
		return err
	}

	logger, err := newLogger(flags.common, cfg.Logging.Level, env.Stdout, env.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	defer func() { _ = logger.Sync() }()

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	// Resolve the style once so theme errors surface before any work starts
	style, err := buildStyle(cfg)
	if err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	poolSize := min(md2pptx.ResolvePoolSize(workers), len(files))
	logger.Debug("starting conversion", zap.Int("files", len(files)), zap.Int("workers", poolSize))

	pool := md2pptx.NewConverterPool(poolSize,
		md2pptx.WithStyle(style),
		md2pptx.WithAssetPath(cfg.Assets.BasePath),
		md2pptx.WithFixZip(cfg.Package.FixZip),
		md2pptx.WithLogger(logger),
	)
	defer pool.Close()

	params := &conversionParams{
		timeout: timeout,
		preview: flags.outputMode.preview,
	}
	results := convertBatch(ctx, &poolAdapter{pool: pool}, files, params)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed == 0 {
		return nil
	}
	if len(results) == 1 {
		return results[0].Err
	}
	return fmt.Errorf("%d conversion(s) failed", failed)
}

// loadConfig loads the config named by the flag, then by MD2PPTX_CONFIG.
// Without either, the default config is used.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	mergeAssetFlags(flags.assets, cfg)

	if flags.deck.institution != "" {
		cfg.Deck.Institution = flags.deck.institution
	}
	if flags.deck.instructor != "" {
		cfg.Deck.Instructor = flags.deck.instructor
	}
	if flags.deck.logo != "" {
		cfg.Deck.Logo = flags.deck.logo
	}
	if flags.outputMode.fixZip {
		cfg.Package.FixZip = true
	}
}

// mergeAssetFlags merges theme selection flags into config.
func mergeAssetFlags(f assetFlags, cfg *config.Config) {
	if f.theme != "" {
		cfg.Theme = f.theme
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

// buildStyle resolves the configured theme and applies deck overrides.
// A logo given on the command line or in the config is resolved against the
// working directory and must exist.
func buildStyle(cfg *config.Config) (*md2pptx.Style, error) {
	style, err := md2pptx.LoadStyle(cfg.Theme, cfg.Assets.BasePath)
	if err != nil {
		return nil, err
	}

	if cfg.Deck.Institution != "" {
		style.Institution = cfg.Deck.Institution
	}
	if cfg.Deck.Instructor != "" {
		style.Instructor = cfg.Deck.Instructor
	}
	if cfg.Deck.Logo != "" {
		logo, err := filepath.Abs(cfg.Deck.Logo)
		if err != nil || !fileutil.FileExists(logo) {
			return nil, fmt.Errorf("%w: %s", ErrLogoNotFound, cfg.Deck.Logo)
		}
		style.Logo = logo
	}

	return style, nil
}

// resolveTimeout parses the --timeout flag, falling back to MD2PPTX_TIMEOUT.
// Zero means no timeout.
func resolveTimeout(flagTimeout string, env *envConfig) (time.Duration, error) {
	if flagTimeout == "" {
		return env.Timeout, nil
	}
	d, err := time.ParseDuration(flagTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, flagTimeout)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, flagTimeout)
	}
	return d, nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// newLogger builds the CLI logger. --quiet and --verbose override the
// configured level. At the normal level only library warnings are shown,
// since results are already printed per file.
func newLogger(common commonFlags, level string, stdout, stderr io.Writer) (*zap.Logger, error) {
	switch {
	case common.quiet:
		level = logging.LevelNone
	case common.verbose:
		level = logging.LevelDebug
	}

	color := false
	if f, ok := stdout.(*os.File); ok {
		color = logging.EnableColorOutput(f)
	}

	logger, err := logging.NewWithSinks(level, logging.Sinks{
		Out:   zapcore.AddSync(stdout),
		Err:   zapcore.AddSync(stderr),
		Color: color,
	})
	if err != nil {
		return nil, err
	}
	if level == logging.LevelNormal || level == "" {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
	}
	return logger, nil
}
