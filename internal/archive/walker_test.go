package archive

import (
	"archive/zip"
	"errors"
	"path/filepath"
	"testing"
)

func TestWalk(t *testing.T) {
	t.Parallel()

	zipPath := filepath.Join(t.TempDir(), "test.pptx")
	writeZip(t, zipPath, []zipEntry{
		{"ppt/media/b.png", "b"},
		{"ppt/slides/slide1.xml", "s"},
		{"ppt/media/a.png", "a"},
		{"docProps/app.xml", "d"},
	})

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("failed to open zip: %v", err)
	}
	defer r.Close()

	t.Run("prefix keeps enumeration order", func(t *testing.T) {
		var visited []string
		err := Walk(&r.Reader, "ppt/media/", func(f *zip.File) error {
			visited = append(visited, f.Name)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		if len(visited) != 2 || visited[0] != "ppt/media/b.png" || visited[1] != "ppt/media/a.png" {
			t.Errorf("visited = %v", visited)
		}
	})

	t.Run("empty prefix visits all", func(t *testing.T) {
		count := 0
		if err := Walk(&r.Reader, "", func(*zip.File) error { count++; return nil }); err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		if count != 4 {
			t.Errorf("visited %d entries, want 4", count)
		}
	})

	t.Run("callback error stops walk", func(t *testing.T) {
		stop := errors.New("stop")
		count := 0
		err := Walk(&r.Reader, "", func(*zip.File) error { count++; return stop })
		if !errors.Is(err, stop) {
			t.Errorf("error = %v, want stop", err)
		}
		if count != 1 {
			t.Errorf("visited %d entries after error, want 1", count)
		}
	})
}

func TestListMedia(t *testing.T) {
	t.Parallel()

	zipPath := filepath.Join(t.TempDir(), "deck.pptx")
	writeZip(t, zipPath, []zipEntry{
		{"ppt/media/image1.png", "1"},
		{"ppt/slides/slide1.xml", "s"},
		{"ppt/media/image2.jpeg", "2"},
	})

	got, err := ListMedia(zipPath, DefaultMediaDir)
	if err != nil {
		t.Fatalf("ListMedia() error = %v", err)
	}
	if len(got) != 2 || got[0] != "ppt/media/image1.png" || got[1] != "ppt/media/image2.jpeg" {
		t.Errorf("ListMedia() = %v", got)
	}

	if _, err := ListMedia(filepath.Join(t.TempDir(), "missing.pptx"), DefaultMediaDir); err == nil {
		t.Error("expected error for missing archive")
	}
}

func TestIsSafePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"normal file", "ppt/media/image1.png", true},
		{"root file", "[Content_Types].xml", true},
		{"dot segment", "ppt/./slides/slide1.xml", true},
		{"dots in name", "ppt/my..file.xml", true},
		{"parent traversal", "../etc/passwd", false},
		{"nested traversal", "ppt/../../etc/passwd", false},
		{"absolute", "/etc/passwd", false},
		{"backslash absolute", `\windows\system32`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isSafePath(tt.path); got != tt.want {
				t.Errorf("isSafePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
