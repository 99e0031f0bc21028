package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// RewriteImagePaths points relative <img src> values of a preview document
// at absolute file:// URLs under baseDir, so the preview renders wherever
// it is written. An empty baseDir returns the document unchanged.
//
// URLs, absolute paths, and paths escaping baseDir are left as they are.
func RewriteImagePaths(document, baseDir string) (string, error) {
	if baseDir == "" {
		return document, nil
	}

	root, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return "", err
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			for i, attr := range n.Attr {
				if attr.Key != "src" {
					continue
				}
				if abs, ok := resolveUnder(root, attr.Val); ok {
					n.Attr[i].Val = fileURL(abs)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var b strings.Builder
	if err := html.Render(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

// resolveUnder joins a relative ref onto root. It reports false for refs
// that are URLs, absolute, or resolve outside root.
func resolveUnder(root, ref string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") || filepath.IsAbs(ref) {
		return "", false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return "", false
	}

	abs := filepath.Join(root, ref)
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return abs, true
}

// fileURL converts an absolute path to a file:// URL.
func fileURL(abs string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}
