package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	md2pptx "github.com/alnah/go-md2pptx"
)

// ---------------------------------------------------------------------------
// TestConvertBatch - Fan-out over the pool
// ---------------------------------------------------------------------------

func TestConvertBatch_OrderAndInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var files []FileToConvert
	for _, name := range []string{"a", "b", "c", "d"} {
		in := writeFile(t, dir, name+".md", deckMarkdown(name))
		files = append(files, FileToConvert{InputPath: in, OutputPath: filepath.Join(dir, "out", name+".pptx")})
	}

	conv := &mockConverter{}
	pool := &mockPool{conv: conv, size: 3}
	results := convertBatch(context.Background(), pool, files, &conversionParams{preview: true})

	if len(results) != len(files) {
		t.Fatalf("got %d results, want %d", len(results), len(files))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("results[%d].Err = %v", i, r.Err)
		}
		if r.InputPath != files[i].InputPath {
			t.Errorf("results[%d].InputPath = %s, want %s", i, r.InputPath, files[i].InputPath)
		}
		if r.Slides != 3 {
			t.Errorf("results[%d].Slides = %d, want 3", i, r.Slides)
		}
		assertFileExists(t, previewPath(files[i].OutputPath))
	}

	if len(conv.inputs) != len(files) {
		t.Fatalf("Compile called %d times, want %d", len(conv.inputs), len(files))
	}
	for _, in := range conv.inputs {
		if in.BaseDir != dir {
			t.Errorf("BaseDir = %s, want %s", in.BaseDir, dir)
		}
		if !in.Preview {
			t.Error("Preview not forwarded")
		}
		if !strings.HasPrefix(in.Markdown, "---") {
			t.Errorf("Markdown not read from file: %q", in.Markdown)
		}
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	t.Parallel()

	if got := convertBatch(context.Background(), &mockPool{size: 1}, nil, &conversionParams{}); got != nil {
		t.Errorf("convertBatch(nil) = %v, want nil", got)
	}
}

func TestConvertBatch_AcquireError(t *testing.T) {
	t.Parallel()

	files := []FileToConvert{{InputPath: "a.md"}, {InputPath: "b.md"}}
	pool := &mockPool{acquireErr: md2pptx.ErrMissingConfig, size: 2}

	for i, r := range convertBatch(context.Background(), pool, files, &conversionParams{}) {
		if !errors.Is(r.Err, ErrConverterInit) || !errors.Is(r.Err, md2pptx.ErrMissingConfig) {
			t.Errorf("results[%d].Err = %v, want ErrConverterInit wrapping ErrMissingConfig", i, r.Err)
		}
	}
}

func TestConvertBatch_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := &mockConverter{}
	files := []FileToConvert{{InputPath: "a.md"}, {InputPath: "b.md"}}
	results := convertBatch(ctx, &mockPool{conv: conv, size: 1}, files, &conversionParams{})

	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("results[%d].Err = %v, want context.Canceled", i, r.Err)
		}
	}
	if len(conv.inputs) != 0 {
		t.Errorf("Compile called %d times after cancel", len(conv.inputs))
	}
}

// ---------------------------------------------------------------------------
// TestConvertFile - Single file failure modes
// ---------------------------------------------------------------------------

func TestConvertFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "a.md", deckMarkdown("A"))
	blocker := writeFile(t, dir, "blocker", "file, not dir")

	tests := []struct {
		name    string
		file    FileToConvert
		conv    *mockConverter
		wantErr error
	}{
		{
			name:    "unreadable input",
			file:    FileToConvert{InputPath: filepath.Join(dir, "missing.md"), OutputPath: filepath.Join(dir, "x.pptx")},
			conv:    &mockConverter{},
			wantErr: ErrReadMarkdown,
		},
		{
			name:    "output parent is a file",
			file:    FileToConvert{InputPath: input, OutputPath: filepath.Join(blocker, "x.pptx")},
			conv:    &mockConverter{},
			wantErr: ErrCreateOutputDir,
		},
		{
			name:    "compile error passes through",
			file:    FileToConvert{InputPath: input, OutputPath: filepath.Join(dir, "x.pptx")},
			conv:    &mockConverter{err: md2pptx.ErrPackaging},
			wantErr: md2pptx.ErrPackaging,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := convertFile(context.Background(), tt.conv, tt.file, &conversionParams{})
			if !errors.Is(r.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", r.Err, tt.wantErr)
			}
		})
	}
}

// deadlineConverter reports whether Compile saw a deadline.
type deadlineConverter struct {
	sawDeadline bool
}

func (d *deadlineConverter) Compile(ctx context.Context, input md2pptx.Input) (*md2pptx.CompileResult, error) {
	_, d.sawDeadline = ctx.Deadline()
	return &md2pptx.CompileResult{Path: input.Output}, nil
}

func TestConvertFile_Timeout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f := FileToConvert{
		InputPath:  writeFile(t, dir, "a.md", deckMarkdown("A")),
		OutputPath: filepath.Join(dir, "a.pptx"),
	}

	conv := &deadlineConverter{}
	if r := convertFile(context.Background(), conv, f, &conversionParams{timeout: time.Minute}); r.Err != nil {
		t.Fatalf("Err = %v", r.Err)
	}
	if !conv.sawDeadline {
		t.Error("timeout did not set a deadline")
	}
}

// ---------------------------------------------------------------------------
// TestPrintResults - Result reporting
// ---------------------------------------------------------------------------

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.md", OutputPath: "a.pptx", Slides: 4},
		{InputPath: "b.md", OutputPath: "b.pptx", Omitted: 2},
		{InputPath: "c.md", Err: os.ErrNotExist},
	}

	tests := []struct {
		name       string
		results    []ConversionResult
		quiet      bool
		verbose    bool
		wantOut    []string
		notOut     []string
		wantErr    []string
		wantFailed int
	}{
		{
			name:       "normal",
			results:    results,
			wantOut:    []string{"Created a.pptx", "2 element(s) did not fit", "2 succeeded, 1 failed"},
			wantErr:    []string{"FAILED c.md"},
			wantFailed: 1,
		},
		{
			name:       "verbose",
			results:    results,
			verbose:    true,
			wantOut:    []string{"a.md -> a.pptx (4 slides"},
			wantFailed: 1,
		},
		{
			name:       "quiet",
			results:    results,
			quiet:      true,
			notOut:     []string{"Created", "succeeded"},
			wantErr:    []string{"FAILED c.md"},
			wantFailed: 1,
		},
		{
			name:       "lone failure left to caller",
			results:    results[2:],
			notOut:     []string{"succeeded"},
			wantFailed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := newTestEnv(nil)
			if got := printResults(tt.results, tt.quiet, tt.verbose, env); got != tt.wantFailed {
				t.Errorf("failed = %d, want %d", got, tt.wantFailed)
			}
			for _, s := range tt.wantOut {
				if !strings.Contains(stdout.String(), s) {
					t.Errorf("stdout missing %q:\n%s", s, stdout.String())
				}
			}
			for _, s := range tt.notOut {
				if strings.Contains(stdout.String(), s) {
					t.Errorf("stdout should not contain %q:\n%s", s, stdout.String())
				}
			}
			for _, s := range tt.wantErr {
				if !strings.Contains(stderr.String(), s) {
					t.Errorf("stderr missing %q:\n%s", s, stderr.String())
				}
			}
			if len(tt.results) == 1 && stderr.String() != "" {
				t.Errorf("lone failure printed: %q", stderr.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPoolAdapter - Type safety over md2pptx.ConverterPool
// ---------------------------------------------------------------------------

func TestPoolAdapter(t *testing.T) {
	t.Parallel()

	pool := md2pptx.NewConverterPool(2)
	defer pool.Close()
	adapter := &poolAdapter{pool: pool}

	if adapter.Size() != 2 {
		t.Errorf("Size() = %d, want 2", adapter.Size())
	}

	conv, err := adapter.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	adapter.Release(conv)

	defer func() {
		r := recover()
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "unexpected type") {
			t.Errorf("recover() = %v, want unexpected type panic", r)
		}
	}()
	adapter.Release(&mockConverter{})
}
