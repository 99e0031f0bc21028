// Package pipeline implements the markdown-to-slide compilation stages.
//
// The stages run in a fixed order for each document:
//   - Markdown preprocessing (line normalization, Unicode NFC)
//   - Frontmatter extraction
//   - Slide splitting on "## [type] Title" headers
//   - Content element parsing (code, tables, bullets, text)
//   - Inline formatting of text and bullet lines (bold, code spans)
//   - Layout flow into the vertical capacity of a slide
//
// Package assembly is handled by internal/pptx and archive post-processing
// by internal/archive. This package is pure data transformation: it never
// touches the filesystem and never fails on imperfect slide content.
package pipeline
