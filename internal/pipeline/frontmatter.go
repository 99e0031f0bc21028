package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/alnah/go-md2pptx/internal/yamlutil"
)

// ErrMalformedFrontmatter indicates the leading metadata block is missing or unparsable.
var ErrMalformedFrontmatter = errors.New("malformed frontmatter")

// yamlFormat delimits frontmatter with "---" lines and decodes it through yamlutil.
var yamlFormat = frontmatter.NewFormat("---", "---", unmarshalFrontmatter)

// Frontmatter holds the scalar metadata that precedes the slide body.
// Values are stringified at parse time; the zero value is an empty mapping.
type Frontmatter struct {
	values map[string]string
}

// NewFrontmatter builds a Frontmatter from a plain map. The map is copied.
func NewFrontmatter(values map[string]string) Frontmatter {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[strings.ToLower(k)] = v
	}
	return Frontmatter{values: cp}
}

// Get returns the value for key (case-insensitive) or "" if absent.
func (f Frontmatter) Get(key string) string {
	return f.values[strings.ToLower(key)]
}

// Lookup returns the value for key and whether it was present.
func (f Frontmatter) Lookup(key string) (string, bool) {
	v, ok := f.values[strings.ToLower(key)]
	return v, ok
}

// Keys returns the frontmatter keys in sorted order.
func (f Frontmatter) Keys() []string {
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (f Frontmatter) Len() int {
	return len(f.values)
}

// ParseFrontmatter splits the leading "---" delimited block from content.
// Returns the metadata and the remaining body. A missing or undecodable
// block yields ErrMalformedFrontmatter.
func ParseFrontmatter(content string) (Frontmatter, string, error) {
	var raw map[string]any

	body, err := frontmatter.MustParse(strings.NewReader(content), &raw, yamlFormat)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return Frontmatter{}, "", fmt.Errorf("%w: no leading --- block", ErrMalformedFrontmatter)
		}
		return Frontmatter{}, "", fmt.Errorf("%w: %v", ErrMalformedFrontmatter, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		values[strings.ToLower(k)] = scalarString(v)
	}

	return Frontmatter{values: values}, string(body), nil
}

// unmarshalFrontmatter tolerates an empty block, which yamlutil rejects.
func unmarshalFrontmatter(data []byte, v any) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return yamlutil.Unmarshal(data, v)
}

// scalarString renders a decoded YAML value as a string.
// Sequences are joined with ", "; nested mappings fall back to fmt formatting.
func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, scalarString(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
