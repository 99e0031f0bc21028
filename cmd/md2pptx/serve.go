package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	md2pptx "github.com/alnah/go-md2pptx"
)

// Server identity.
const serverName = "md2pptx"

// Tool names.
const (
	toolGenerateDeck = "generate_deck"
	toolListThemes   = "list_themes"
)

// Tool parameter keys, shared between schema definitions and argument
// extraction so a typo in one place is caught by the other.
const (
	argMarkdown = "markdown"
	argOutput   = "output"
	argBaseDir  = "base_dir"
)

// runServeCmd parses serve flags and serves tools until ctx is cancelled
// or stdin closes.
func runServeCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}

	envCfg := loadEnvConfig(env.getenv)
	warnUnknownEnvVars(env.Stderr, env.environ())

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeAssetFlags(flags.assets, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// stdout carries the protocol, so every log line goes to stderr
	logger, err := newLogger(flags.common, cfg.Logging.Level, env.Stderr, env.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	defer func() { _ = logger.Sync() }()

	style, err := buildStyle(cfg)
	if err != nil {
		return err
	}
	conv, err := md2pptx.NewConverter(
		md2pptx.WithStyle(style),
		md2pptx.WithAssetPath(cfg.Assets.BasePath),
		md2pptx.WithFixZip(cfg.Package.FixZip),
		md2pptx.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	s := newToolServer(conv)
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(zap.NewStdLog(logger))

	logger.Debug("serving tools on stdio", zap.String("theme", style.Name))
	if err := stdio.Listen(ctx, env.Stdin, env.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("tool server: %w", err)
	}
	return nil
}

// newToolServer builds a tool server bound to conv.
func newToolServer(conv CLIConverter) *server.MCPServer {
	s := server.NewMCPServer(serverName, Version, server.WithToolCapabilities(false))
	registerTools(s, conv)
	return s
}

// registerTools binds tool definitions to their handlers.
// It accepts the CLIConverter interface so tests can inject a mock.
func registerTools(s *server.MCPServer, conv CLIConverter) {
	s.AddTool(
		mcp.NewTool(toolGenerateDeck,
			mcp.WithDescription("Compile slide markdown into a PowerPoint deck. "+
				"Each '## ' header starts a slide; '## [type] Title' selects the slide type "+
				"(title, divider, content, bullet, plan, image, quote, chart, closing). "+
				"The markdown must start with a YAML frontmatter block."),
			mcp.WithString(argMarkdown,
				mcp.Required(),
				mcp.Description("Markdown source, frontmatter included"),
			),
			mcp.WithString(argOutput,
				mcp.Required(),
				mcp.Description("Absolute path of the .pptx file to write"),
			),
			mcp.WithString(argBaseDir,
				mcp.Description("Directory for relative image paths (default: the output directory)"),
			),
		),
		generateDeckHandler(conv),
	)

	s.AddTool(
		mcp.NewTool(toolListThemes,
			mcp.WithDescription("List the built-in theme names."),
		),
		func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(strings.Join(md2pptx.ListThemes(), "\n")), nil
		},
	)
}

// generateDeckHandler compiles the markdown argument into the output path.
// Compilation failures are reported as tool errors, not protocol errors.
func generateDeckHandler(conv CLIConverter) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		markdown, _ := req.Params.Arguments[argMarkdown].(string)
		if strings.TrimSpace(markdown) == "" {
			return mcp.NewToolResultError(argMarkdown + " is required"), nil
		}
		output, _ := req.Params.Arguments[argOutput].(string)
		if output == "" {
			return mcp.NewToolResultError(argOutput + " is required"), nil
		}
		if !filepath.IsAbs(output) {
			return mcp.NewToolResultError(argOutput + " must be an absolute path"), nil
		}
		if !strings.EqualFold(filepath.Ext(output), deckExtension) {
			return mcp.NewToolResultError(argOutput + " must end in " + deckExtension), nil
		}

		baseDir, _ := req.Params.Arguments[argBaseDir].(string)
		if baseDir == "" {
			baseDir = filepath.Dir(output)
		}

		res, err := conv.Compile(ctx, md2pptx.Input{
			Markdown: markdown,
			Output:   output,
			BaseDir:  baseDir,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("%s (%d slides, %d elements omitted)",
			res.Path, res.Slides, res.Omitted)), nil
	}
}
