package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"github.com/maruel/natural"

	md2pptx "github.com/alnah/go-md2pptx"
	"github.com/alnah/go-md2pptx/internal/pipeline"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

const (
	deckExtension = ".pptx"
	fallbackName  = "deck"
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all markdown files to convert.
// Directory entries are returned in natural order ("week2" before "week10")
// and output names that collide within a directory get a numeric suffix.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var paths []string
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isMarkdown(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Sort(natural.StringSlice(paths))

	files := make([]FileToConvert, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		outPath := uniquePath(resolveOutputPath(path, outputDir, inputPath), seen)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
	}
	return files, nil
}

// resolveOutputPath determines the deck path for a markdown file.
// An output ending in .pptx names the file directly, for single inputs only.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	name := deckFileName(inputPath)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if baseInputDir == "" && strings.EqualFold(filepath.Ext(outputDir), deckExtension) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(outputDir, name)
}

// deckFileName derives the deck file name from the frontmatter title,
// falling back to the source file name.
func deckFileName(inputPath string) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	for _, candidate := range []string{frontmatterTitle(inputPath), stem} {
		if name := slug.Make(candidate); name != "" {
			return name + deckExtension
		}
	}
	return fallbackName + deckExtension
}

// frontmatterTitle returns the title of a markdown file, or "" when the
// file cannot be read or has no usable frontmatter. Conversion reports
// those problems later.
func frontmatterTitle(path string) string {
	data, err := os.ReadFile(path) // #nosec G304 -- discovered path
	if err != nil {
		return ""
	}
	fm, _, err := pipeline.ParseFrontmatter(string(data))
	if err != nil {
		return ""
	}
	return fm.Get("title")
}

// uniquePath returns path, or path with a "-N" suffix when already taken.
func uniquePath(path string, seen map[string]bool) string {
	if !seen[path] {
		seen[path] = true
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d%s", base, n, ext)
		if !seen[candidate] {
			seen[candidate] = true
			return candidate
		}
	}
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !isMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > md2pptx.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, md2pptx.MaxPoolSize)
	}
	return nil
}

// previewPath returns the HTML preview path corresponding to a deck path.
func previewPath(deckPath string) string {
	return strings.TrimSuffix(deckPath, filepath.Ext(deckPath)) + ".html"
}
