// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2pptx/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-md2pptx") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForThemeNotFound returns hints listing the themes that can be used instead.
func ForThemeNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", ") + "; or pass a path to a theme file")
}

// ForMissingThemeKeys returns hints for themes lacking required keys.
func ForMissingThemeKeys() string {
	return formatHints([]string{
		"colors.primary, colors.secondary, colors.text and colors.background are required",
		"fonts.heading, fonts.body and fonts.code are required",
	})
}

// ForFrontmatter returns hints for malformed or missing frontmatter.
func ForFrontmatter() string {
	return format("start the file with a YAML block between two --- lines")
}

// ForLogo returns hints for logo or slide images that could not be embedded.
func ForLogo() string {
	return format("supported formats: PNG, JPG, GIF, BMP, TIFF; --logo paths are relative to the working directory")
}

// ForPackaging returns hints for archive write failures.
func ForPackaging() string {
	return formatHints([]string{
		"check the output directory is writable and has free space",
		"close the deck if it is open in a presentation program",
	})
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
