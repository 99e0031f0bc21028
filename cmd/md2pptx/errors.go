package main

import (
	"errors"
	"os"
	"path/filepath"

	md2pptx "github.com/alnah/go-md2pptx"
	"github.com/alnah/go-md2pptx/internal/config"
	"github.com/alnah/go-md2pptx/internal/hints"
)

// formatError renders err for the terminal with an actionable hint when
// one applies.
func formatError(err error) string {
	msg := "error: " + err.Error()

	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		msg += hints.ForConfigNotFound(userConfigPaths())
	case errors.Is(err, md2pptx.ErrMissingConfig):
		msg += hints.ForThemeNotFound(md2pptx.ListThemes()) + hints.ForMissingThemeKeys()
	case errors.Is(err, md2pptx.ErrMalformedFrontmatter):
		msg += hints.ForFrontmatter()
	case errors.Is(err, ErrLogoNotFound):
		msg += hints.ForLogo()
	case errors.Is(err, ErrCreateOutputDir):
		msg += hints.ForOutputDirectory()
	case errors.Is(err, md2pptx.ErrPackaging):
		msg += hints.ForPackaging()
	}

	return msg
}

// userConfigPaths lists where a default config would be looked up.
func userConfigPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "go-md2pptx", "config.yaml")}
}
