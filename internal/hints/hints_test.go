package hints

import (
	"strings"
	"testing"
)

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains []string
		excludes []string
	}{
		{
			name:     "suggests user config path",
			paths:    []string{"deck.yaml", "deck.yml", "/home/u/.config/go-md2pptx/deck.yaml"},
			contains: []string{"--config", "or create /home/u/.config/go-md2pptx/deck.yaml"},
		},
		{
			name:     "no user path",
			paths:    []string{"deck.yaml"},
			contains: []string{"--config"},
			excludes: []string{"or create"},
		},
		{
			name:     "nil paths",
			paths:    nil,
			contains: []string{"hint: use --config"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ForConfigNotFound(tt.paths)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("ForConfigNotFound() = %q, want it to contain %q", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("ForConfigNotFound() = %q, should not contain %q", got, bad)
				}
			}
		})
	}
}

func TestForThemeNotFound(t *testing.T) {
	t.Parallel()

	if got := ForThemeNotFound(nil); got != "" {
		t.Errorf("ForThemeNotFound(nil) = %q, want empty", got)
	}

	got := ForThemeNotFound([]string{"academic", "dark", "default"})
	if !strings.Contains(got, "available: academic, dark, default") {
		t.Errorf("ForThemeNotFound() = %q", got)
	}
}

func TestStaticHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func() string
		want string
	}{
		{name: "output directory", fn: ForOutputDirectory, want: "writable"},
		{name: "missing theme keys", fn: ForMissingThemeKeys, want: "colors.primary"},
		{name: "frontmatter", fn: ForFrontmatter, want: "---"},
		{name: "logo", fn: ForLogo, want: "PNG"},
		{name: "packaging", fn: ForPackaging, want: "free space"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.fn()
			if !strings.HasPrefix(got, "\n  hint: ") {
				t.Errorf("hint %q missing prefix", got)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hint %q missing %q", got, tt.want)
			}
		})
	}
}

func TestFormatHints(t *testing.T) {
	t.Parallel()

	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
	if got := formatHints([]string{"a", "b"}); got != "\n  hint: a; b" {
		t.Errorf("formatHints() = %q", got)
	}
	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
}
