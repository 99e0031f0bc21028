package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	md2pptx "github.com/alnah/go-md2pptx"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment and fixtures
// ---------------------------------------------------------------------------

// lockedBuffer is a bytes.Buffer safe for the concurrent writes of a batch.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestEnv returns an environment with captured output and the given
// variables as the whole process environment.
func newTestEnv(vars map[string]string) (*Environment, *lockedBuffer, *lockedBuffer) {
	stdout, stderr := &lockedBuffer{}, &lockedBuffer{}
	env := &Environment{
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(key string) string { return vars[key] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
	}
	return env, stdout, stderr
}

// deckMarkdown returns a small valid document titled title.
func deckMarkdown(title string) string {
	return "---\ntitle: " + title + "\n---\n## [title] " + title + "\n\n## [bullet] Points\n- one\n- **two**\n"
}

// writeFile writes content under dir, creating parents, and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// writePNG writes a small PNG under dir and returns its path.
func writePNG(t *testing.T, dir, name string) string {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return writeFile(t, dir, name, buf.String())
}

// assertFileExists fails the test when path is missing.
func assertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

// ---------------------------------------------------------------------------
// Mock Implementations - For unit testing
// ---------------------------------------------------------------------------

// mockConverter records inputs and returns a fixed result or error.
type mockConverter struct {
	mu     sync.Mutex
	inputs []md2pptx.Input
	err    error
}

func (m *mockConverter) Compile(_ context.Context, input md2pptx.Input) (*md2pptx.CompileResult, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return &md2pptx.CompileResult{
		Path:   input.Output,
		Slides: 3,
		HTML:   []byte("<html></html>"),
	}, nil
}

// mockPool hands out a single shared converter.
type mockPool struct {
	conv       CLIConverter
	acquireErr error
	size       int
}

func (p *mockPool) Acquire() (CLIConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.conv, nil
}

func (p *mockPool) Release(CLIConverter) {}

func (p *mockPool) Size() int {
	return p.size
}
