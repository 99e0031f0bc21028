package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-md2pptx/internal/yamlutil"
)

type themeFile struct {
	Name   string            `yaml:"name"`
	Colors map[string]string `yaml:"colors"`
	Fonts  struct {
		Heading string `yaml:"heading"`
		Body    string `yaml:"body"`
	} `yaml:"fonts"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Frontmatter decoding accepts any key
// ---------------------------------------------------------------------------

func TestUnmarshal_Frontmatter(t *testing.T) {
	t.Parallel()

	var fm map[string]any
	data := []byte("title: Go Basics\nlesson: 2\ndraft: false\nauthor: Ada\nprimary: \"AA0000\"\nnotes: ünïcode")
	if err := yamlutil.Unmarshal(data, &fm); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if fm["title"] != "Go Basics" || fm["author"] != "Ada" {
		t.Errorf("string scalars = %v", fm)
	}
	if fm["primary"] != "AA0000" {
		t.Errorf("quoted colour = %v, want AA0000", fm["primary"])
	}
	if _, ok := fm["lesson"]; !ok {
		t.Error("numeric scalar missing")
	}
	if fm["draft"] != false {
		t.Errorf("draft = %v, want false", fm["draft"])
	}
	if fm["notes"] != "ünïcode" {
		t.Errorf("notes = %v", fm["notes"])
	}
}

func TestUnmarshal_IgnoresUnknownThemeKeys(t *testing.T) {
	t.Parallel()

	var th themeFile
	if err := yamlutil.Unmarshal([]byte("name: x\nextra: 1"), &th); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if th.Name != "x" {
		t.Errorf("Name = %q", th.Name)
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Theme files reject typos
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "complete theme",
			data: "name: academic\ncolors:\n  primary: \"1F3864\"\nfonts:\n  heading: Georgia\n  body: Calibri",
		},
		{
			name:    "misspelled section",
			data:    "name: academic\nfont:\n  body: Arial",
			wantErr: true,
		},
		{
			name:    "misspelled nested key",
			data:    "fonts:\n  bodi: Arial",
			wantErr: true,
		},
		{
			name:    "invalid syntax",
			data:    "colors: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var th themeFile
			err := yamlutil.UnmarshalStrict([]byte(tt.data), &th)
			if tt.wantErr {
				if err == nil || !strings.HasPrefix(err.Error(), "yamlutil:") {
					t.Errorf("error = %v, want yamlutil-prefixed error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalStrict() error = %v", err)
			}
			if th.Colors["primary"] != "1F3864" || th.Fonts.Heading != "Georgia" || th.Fonts.Body != "Calibri" {
				t.Errorf("theme = %+v", th)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestInputValidation - Both entry points check input the same way
// ---------------------------------------------------------------------------

func TestInputValidation(t *testing.T) {
	t.Parallel()

	oversized := []byte("name: x\n" + strings.Repeat("#", yamlutil.MaxInputSize))
	atLimit := make([]byte, yamlutil.MaxInputSize)
	copy(atLimit, "name: x\n#")
	for i := len("name: x\n#"); i < len(atLimit); i++ {
		atLimit[i] = '#'
	}

	decoders := map[string]func([]byte, any) error{
		"Unmarshal":       yamlutil.Unmarshal,
		"UnmarshalStrict": yamlutil.UnmarshalStrict,
	}

	tests := []struct {
		name    string
		data    []byte
		nilDest bool
		wantErr error
	}{
		{name: "nil data", data: nil, wantErr: yamlutil.ErrNilData},
		{name: "empty data", data: []byte{}, wantErr: yamlutil.ErrNilData},
		{name: "nil destination", data: []byte("name: x"), nilDest: true, wantErr: yamlutil.ErrNilDestination},
		{name: "over the size limit", data: oversized, wantErr: yamlutil.ErrInputTooLarge},
		{name: "at the size limit", data: atLimit},
	}

	for decName, decode := range decoders {
		for _, tt := range tests {
			t.Run(decName+"/"+tt.name, func(t *testing.T) {
				t.Parallel()

				var th themeFile
				var dest any = &th
				if tt.nilDest {
					dest = nil
				}

				err := decode(tt.data, dest)
				if tt.wantErr == nil {
					if err != nil {
						t.Fatalf("error = %v, want nil", err)
					}
					return
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			})
		}
	}
}
