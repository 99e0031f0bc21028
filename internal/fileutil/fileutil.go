// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrNotImage               = errors.New("file is not a recognized image")
)

// sniffLen is the number of leading bytes filetype needs to match a signature.
const sniffLen = 262

// CreateTempBeside creates an empty temporary file in the directory of target,
// so a later rename or copy stays on the same filesystem.
// Returns the file path and a cleanup function that removes it. Cleanup
// after the file is already gone is not an error.
func CreateTempBeside(target, extension string) (path string, cleanup func() error, err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	dir := filepath.Dir(target)
	tmpFile, err := os.CreateTemp(dir, ".md2pptx-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		_ = cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// CopyFile copies src to dst byte for byte, replacing dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- caller-controlled path
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst) // #nosec G304 -- caller-controlled path
	if err != nil {
		return fmt.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying file contents: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing destination file: %w", err)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "academic" -> false (theme name)
//   - "./theme.yaml" -> true (relative path)
//   - "/absolute/theme.yaml" -> true (absolute)
//   - "C:\themes\dark.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ImageType describes an image sniffed from its content.
type ImageType struct {
	MIME      string // e.g. "image/png"
	Extension string // without dot, e.g. "png"
}

// DetectImage identifies the image type from the leading bytes of data.
// The file extension is never trusted. Returns ErrNotImage for non-images.
func DetectImage(data []byte) (ImageType, error) {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if !filetype.IsImage(head) {
		return ImageType{}, ErrNotImage
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return ImageType{}, ErrNotImage
	}
	return ImageType{MIME: kind.MIME.Value, Extension: kind.Extension}, nil
}
