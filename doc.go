// Package md2pptx compiles Markdown slide documents to PowerPoint (.pptx).
//
// # Quick Start
//
// Create a converter and compile a document to a file:
//
//	conv, err := md2pptx.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Compile(ctx, md2pptx.Input{
//	    Markdown: content,
//	    Output:   "lesson.pptx",
//	    BaseDir:  "/path/to/markdown", // for relative image and logo paths
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Path, result.Slides)
//
// # Document Format
//
// A document starts with a "---" delimited frontmatter block followed by
// slides. Each slide begins with a "## [type] Title" line:
//
//	---
//	title: Go Basics
//	topic: Types and values
//	author: Ada Lovelace
//	---
//
//	## [divider] Introduction
//
//	## [content] Facts
//	- one
//	- two
//
// Types are title, bullet, plan, divider, content, image, code, quote and
// chart. Unknown or missing types fall back to content. A closing slide is
// always appended.
//
// # Compilation Pipeline
//
//  1. Markdown preprocessing (line endings, Unicode NFC)
//  2. Frontmatter parsing
//  3. Slide splitting and element parsing (text, bullets, code, tables)
//  4. Vertical layout of each slide; elements past the bottom are omitted
//  5. Package writing (PresentationML parts, chroma code coloring)
//  6. Media normalization: embedded media renamed image1, image2, ...
//     with every XML and relationship reference rewritten
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := md2pptx.NewConverter(
//	    md2pptx.WithTheme("academic"),
//	    md2pptx.WithAssetPath("/path/to/custom/assets"),
//	    md2pptx.WithLogger(logger),
//	)
//
// Themes are YAML files with colors, fonts, sizes and a chroma code style.
// Built-in themes are embedded; a custom asset directory may add or
// override them under themes/{name}.yaml.
//
// # Parallel Processing
//
// Converters are safe for concurrent use. ConverterPool bounds the number
// of compilations running at once:
//
//	pool := md2pptx.NewConverterPool(4)
//	conv := pool.Acquire()
//	defer pool.Release(conv)
package md2pptx
