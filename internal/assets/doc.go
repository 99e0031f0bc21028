// Package assets provides slide themes for deck generation.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in themes)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in themes (default, dark, academic)
// embedded at compile time.
//
// FilesystemLoader allows users to provide custom themes from a directory,
// with path traversal protection and symlink resolution.
//
// AssetResolver is the primary loader used by the converter. It tries the
// custom FilesystemLoader first, falling back to EmbeddedLoader if the theme
// is not found. A custom directory can override a built-in theme by name.
//
// # Directory Structure
//
//	{basePath}/
//	└── themes/
//	    └── {name}.yaml          # theme (e.g., corporate.yaml, .yml also accepted)
//
// Loaders return raw YAML; parsing and validation live in internal/config.
//
// # Security
//
// Theme names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
