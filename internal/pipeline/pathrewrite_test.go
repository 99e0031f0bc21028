package pipeline

// Notes:
// - Traversal tests check the observable behavior (src left unchanged)
//   rather than resolveUnder directly.

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRewriteImagePaths - Preview image resolution
// ---------------------------------------------------------------------------

func TestRewriteImagePaths(t *testing.T) {
	t.Parallel()

	baseDir := "/lessons"
	if runtime.GOOS == "windows" {
		baseDir = `C:\lessons`
	}
	page := func(body string) string {
		return "<!DOCTYPE html><html><head><title>t</title></head><body>" + body + "</body></html>"
	}

	tests := []struct {
		name         string
		html         string
		baseDir      string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "relative with dot slash",
			html:         page(`<img src="./img/a.png"/>`),
			baseDir:      baseDir,
			wantContains: []string{`src="file://`, "img/a.png"},
		},
		{
			name:         "relative without dot slash",
			html:         page(`<img src="img/a.png" alt="A"/>`),
			baseDir:      baseDir,
			wantContains: []string{`src="file://`, `alt="A"`},
		},
		{
			name:         "remote URL unchanged",
			html:         page(`<img src="https://example.com/a.png"/>`),
			baseDir:      baseDir,
			wantContains: []string{`src="https://example.com/a.png"`},
		},
		{
			name:         "data URI unchanged",
			html:         page(`<img src="data:image/png;base64,AAAA"/>`),
			baseDir:      baseDir,
			wantContains: []string{`src="data:image/png;base64,AAAA"`},
		},
		{
			name:         "protocol relative unchanged",
			html:         page(`<img src="//cdn.example.com/a.png"/>`),
			baseDir:      baseDir,
			wantContains: []string{`src="//cdn.example.com/a.png"`},
		},
		{
			name:         "traversal left unchanged",
			html:         page(`<img src="../../etc/passwd"/>`),
			baseDir:      baseDir,
			wantContains: []string{`src="../../etc/passwd"`},
			wantExcludes: []string{"file://"},
		},
		{
			name:         "links untouched",
			html:         page(`<a href="notes.md">notes</a>`),
			baseDir:      baseDir,
			wantContains: []string{`href="notes.md"`},
		},
		{
			name:         "empty base dir returns input",
			html:         `<img src="a.png">`,
			baseDir:      "",
			wantContains: []string{`<img src="a.png">`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteImagePaths(tt.html, tt.baseDir)
			if err != nil {
				t.Fatalf("RewriteImagePaths() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("result missing %q:\n%s", want, got)
				}
			}
			for _, bad := range tt.wantExcludes {
				if strings.Contains(got, bad) {
					t.Errorf("result should not contain %q:\n%s", bad, got)
				}
			}
		})
	}
}

func TestRewriteImagePaths_AbsoluteURL(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := RewriteImagePaths(`<html><body><img src="pics/x.png"></body></html>`, dir)
	if err != nil {
		t.Fatalf("RewriteImagePaths() error = %v", err)
	}

	want := fileURL(filepath.Join(dir, "pics", "x.png"))
	if !strings.Contains(got, `src="`+want+`"`) {
		t.Errorf("result = %s, want src %s", got, want)
	}
}

func TestResolveUnder(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/base")

	tests := []struct {
		ref  string
		want bool
	}{
		{ref: "a.png", want: true},
		{ref: "sub/../a.png", want: true},
		{ref: "..", want: false},
		{ref: "../a.png", want: false},
		{ref: "#frag", want: false},
		{ref: "", want: false},
		{ref: "mailto:x@example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			t.Parallel()

			if _, ok := resolveUnder(root, tt.ref); ok != tt.want {
				t.Errorf("resolveUnder(%q) ok = %v, want %v", tt.ref, ok, tt.want)
			}
		})
	}
}
