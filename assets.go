package md2pptx

import (
	"errors"
	"fmt"
	"os"

	"github.com/alnah/go-md2pptx/internal/assets"
	"github.com/alnah/go-md2pptx/internal/fileutil"
)

// DefaultTheme is the name of the built-in theme used when none is set.
const DefaultTheme = assets.DefaultThemeName

// ListThemes returns the names of the built-in themes, sorted.
func ListThemes() []string {
	return assets.ListThemes()
}

// LoadStyle resolves a theme name or file path to a validated Style.
//
// A value containing a path separator is read as a YAML file. Otherwise it
// names a theme looked up under {assetPath}/themes/ first (when assetPath
// is set), then among the built-in themes. An empty name selects
// DefaultTheme.
//
// Returns ErrMissingConfig if the theme cannot be found, parsed, or lacks
// required keys, and ErrInvalidAssetPath if assetPath is not a usable directory.
func LoadStyle(nameOrPath, assetPath string) (*Style, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultTheme
	}

	if fileutil.IsFilePath(nameOrPath) {
		data, err := os.ReadFile(nameOrPath) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: reading theme file %q: %v", ErrMissingConfig, nameOrPath, err)
		}
		return ParseStyle(data)
	}

	resolver, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	data, err := resolver.LoadTheme(nameOrPath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return ParseStyle(data)
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrThemeNotFound):
		return wrapError(ErrMissingConfig, err)
	case errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrMissingConfig, err) // Invalid name means not found
	case errors.Is(err, assets.ErrInvalidBasePath):
		return wrapError(ErrInvalidAssetPath, err)
	case errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	default:
		return err
	}
}

// wrapError creates a new error that wraps the original with a public sentinel.
// The resulting error preserves the original message via Error() and supports
// errors.Is() matching against the public sentinel via Unwrap().
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel for errors.Is() matching.
// Internal errors are not exposed since they're in internal/ packages.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}
