// Package archive post-processes finished presentation packages on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"
)

// WalkFunc is the type of the function called for each entry visited by Walk.
// If an error is returned, processing stops.
type WalkFunc func(file *zip.File) error

// Walk visits every non-directory entry of r whose name starts with prefix,
// in archive enumeration order. An empty prefix visits every entry.
// Entries with absolute paths or ".." components abort the walk.
func Walk(r *zip.Reader, prefix string, walkFn WalkFunc) error {
	for _, f := range r.File {
		name := f.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := walkFn(f); err != nil {
			return err
		}
	}
	return nil
}

// ListMedia returns the names of all media entries in the package at archive.
func ListMedia(archive, mediaDir string) ([]string, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var names []string
	err = Walk(&r.Reader, mediaDir, func(f *zip.File) error {
		names = append(names, f.Name)
		return nil
	})
	return names, err
}

// isSafePath returns false for absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
