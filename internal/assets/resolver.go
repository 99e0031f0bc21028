package assets

import (
	"errors"
)

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the theme is not found in the custom location.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded themes are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadTheme loads a theme, trying the custom loader first if available.
// Only ErrThemeNotFound triggers the fallback; validation and I/O errors
// from the custom loader are returned as is.
func (r *AssetResolver) LoadTheme(name string) ([]byte, error) {
	if r.custom == nil {
		return r.embedded.LoadTheme(name)
	}

	content, err := r.custom.LoadTheme(name)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, ErrThemeNotFound) {
		return nil, err
	}
	return r.embedded.LoadTheme(name)
}

// HasCustomLoader returns true if a custom theme directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
