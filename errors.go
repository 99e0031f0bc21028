package md2pptx

import (
	"errors"

	"github.com/alnah/go-md2pptx/internal/archive"
	"github.com/alnah/go-md2pptx/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown = errors.New("markdown content cannot be empty")
	ErrEmptyOutput   = errors.New("output path cannot be empty")

	// ErrMalformedFrontmatter: the leading metadata block is missing or unparsable.
	ErrMalformedFrontmatter = pipeline.ErrMalformedFrontmatter

	// ErrMissingConfig: the style configuration is absent or lacks required keys.
	ErrMissingConfig = errors.New("style configuration missing or incomplete")

	// ErrAssetNotFound is logged for a missing logo or image. It never
	// fails a compilation; the embed is skipped.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrPackaging: the package could not be written or post-processed.
	// No partial output is left behind.
	ErrPackaging = archive.ErrPackaging

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
