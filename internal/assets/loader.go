package assets

import (
	"fmt"
	"strings"
)

// DefaultThemeName is the name of the built-in theme used when none is given.
const DefaultThemeName = "default"

// themeExtensions are tried in order when looking a theme up by name.
var themeExtensions = []string{".yaml", ".yml"}

// AssetLoader defines the contract for loading themes.
// Implementations may load from embedded assets, filesystem, S3, database, etc.
type AssetLoader interface {
	// LoadTheme loads raw theme YAML by name (without extension).
	// Returns ErrThemeNotFound if the theme doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTheme(name string) ([]byte, error)
}

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Dots are rejected too, so callers cannot pick the extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
