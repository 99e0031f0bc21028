package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadTheme loads a theme by name using the default embedded loader.
// The name should not include the .yaml extension or path components.
// Returns ErrThemeNotFound if the theme does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadTheme(name string) ([]byte, error) {
	return defaultLoader.LoadTheme(name)
}

// ListThemes returns the names of the built-in themes, sorted.
func ListThemes() []string {
	return defaultLoader.ListThemes()
}
