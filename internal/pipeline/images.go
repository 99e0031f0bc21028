package pipeline

import (
	"regexp"
	"strings"
)

// imageRef matches ![alt](path) with an optional "title" after the path.
var imageRef = regexp.MustCompile(`!\[([^\]]*)\]\(\s*([^)\s]+)(?:\s+"[^"]*")?\s*\)`)

// ImageRef is a markdown image reference inside a slide body.
type ImageRef struct {
	Alt  string
	Path string
}

// ExtractImages returns the image references of body in source order.
// References inside fenced code are ignored.
func ExtractImages(body string) []ImageRef {
	body, _ = ExtractCodeBlocks(body)

	var refs []ImageRef
	for _, m := range imageRef.FindAllStringSubmatch(body, -1) {
		refs = append(refs, ImageRef{Alt: strings.TrimSpace(m[1]), Path: m[2]})
	}
	return refs
}

// StripImages removes image references from body, leaving the surrounding text.
func StripImages(body string) string {
	return imageRef.ReplaceAllString(body, "")
}
