package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/alnah/go-md2pptx/internal/fileutil"
)

// ErrPackaging indicates the package archive could not be read or written.
var ErrPackaging = errors.New("packaging failed")

// DefaultMediaDir is where PresentationML packages store embedded media.
const DefaultMediaDir = "ppt/media/"

// MediaEntry maps one embedded media file to its normalized name.
type MediaEntry struct {
	OriginalName string // full entry path inside the archive
	AssignedName string // full entry path after normalization
	Extension    string // with leading dot, may be empty
}

// Changed reports whether normalization renames the entry.
func (e MediaEntry) Changed() bool {
	return e.OriginalName != e.AssignedName
}

// Report describes what NormalizeMedia did.
type Report struct {
	Entries  []MediaEntry
	FastPath bool // source copied verbatim
}

// Options configures NormalizeMedia.
type Options struct {
	MediaDir string      // defaults to DefaultMediaDir
	Logger   *zap.Logger // defaults to a no-op logger
}

func (o Options) withDefaults() Options {
	if o.MediaDir == "" {
		o.MediaDir = DefaultMediaDir
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// NormalizeMedia copies the package at src to dst, renaming every media entry
// to image<N><ext> (N counts from 1 in enumeration order) and rewriting each
// old basename to its new one inside every .xml and .rels entry.
//
// Rewriting is plain substring replacement: an old basename that also occurs
// inside an unrelated name is replaced there too. When an old basename occurs
// more than once, its first assignment is used for the rewrite.
//
// If no entry needs renaming, src is copied byte for byte. On failure dst is
// removed and the error wraps ErrPackaging.
func NormalizeMedia(src, dst string, opts Options) (report *Report, err error) {
	opts = opts.withDefaults()
	log := opts.Logger.Named("archive")

	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrPackaging, src, err)
	}
	defer func() {
		if err = closeOrRemove(r, dst, err); err != nil {
			report = nil
		}
	}()

	entries, err := assignNames(&r.Reader, opts.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
	}
	report = &Report{Entries: entries}

	if !anyChanged(entries) {
		log.Debug("Media already normalized, copying package", zap.Int("media", len(entries)))
		if err := fileutil.CopyFile(src, dst); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
		}
		report.FastPath = true
		return report, nil
	}

	if err := rewrite(&r.Reader, dst, entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
	}

	for _, e := range entries {
		if e.Changed() {
			log.Debug("Renamed media", zap.String("from", e.OriginalName), zap.String("to", e.AssignedName))
		}
	}
	return report, nil
}

// closeOrRemove closes the source archive and merges its error into err.
// When the result is an error, dst is removed so no partial or unreported
// package is left behind.
func closeOrRemove(src io.Closer, dst string, err error) error {
	err = multierr.Append(err, src.Close())
	if err == nil {
		return nil
	}
	_ = os.Remove(dst)
	if !errors.Is(err, ErrPackaging) {
		err = fmt.Errorf("%w: closing source: %w", ErrPackaging, err)
	}
	return err
}

// assignNames numbers media entries in enumeration order, keeping their directory.
func assignNames(r *zip.Reader, mediaDir string) ([]MediaEntry, error) {
	var entries []MediaEntry
	counter := 0
	err := Walk(r, "", func(f *zip.File) error {
		if !strings.HasPrefix(f.Name, mediaDir) {
			return nil
		}
		counter++
		ext := path.Ext(f.Name)
		entries = append(entries, MediaEntry{
			OriginalName: f.Name,
			AssignedName: path.Join(path.Dir(f.Name), "image"+strconv.Itoa(counter)+ext),
			Extension:    ext,
		})
		return nil
	})
	return entries, err
}

func anyChanged(entries []MediaEntry) bool {
	for _, e := range entries {
		if e.Changed() {
			return true
		}
	}
	return false
}

// basenameReplacer maps old media basenames to new ones. First assignment wins.
func basenameReplacer(entries []MediaEntry) *strings.Replacer {
	seen := make(map[string]bool, len(entries))
	var pairs []string
	for _, e := range entries {
		oldBase, newBase := path.Base(e.OriginalName), path.Base(e.AssignedName)
		if seen[oldBase] {
			continue
		}
		seen[oldBase] = true
		if oldBase != newBase {
			pairs = append(pairs, oldBase, newBase)
		}
	}
	return strings.NewReplacer(pairs...)
}

func isTextPart(name string) bool {
	return strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".rels")
}

// rewrite writes every entry of r to dst in enumeration order.
func rewrite(r *zip.Reader, dst string, entries []MediaEntry) (err error) {
	renames := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Changed() {
			renames[e.OriginalName] = e.AssignedName
		}
	}
	replacer := basenameReplacer(entries)

	out, err := os.Create(dst) // #nosec G304 -- caller-controlled path
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	w := zip.NewWriter(out)
	err = Walk(r, "", func(f *zip.File) error {
		switch {
		case renames[f.Name] != "":
			return copyRenamed(w, f, renames[f.Name])
		case isTextPart(f.Name):
			return rewriteText(w, f, replacer)
		default:
			return w.Copy(f)
		}
	})
	if err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// copyRenamed stores f under name without recompressing its data.
func copyRenamed(w *zip.Writer, f *zip.File, name string) error {
	fh := f.FileHeader
	fh.Name = name
	dst, err := w.CreateRaw(&fh)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	src, err := f.OpenRaw()
	if err != nil {
		return fmt.Errorf("reading %s: %w", f.Name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copying %s: %w", f.Name, err)
	}
	return nil
}

// rewriteText decodes f, applies replacer and stores the result under the same name.
func rewriteText(w *zip.Writer, f *zip.File, replacer *strings.Replacer) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Name, err)
	}
	data, err := io.ReadAll(rc)
	closeErr := rc.Close()
	if err = multierr.Append(err, closeErr); err != nil {
		return fmt.Errorf("reading %s: %w", f.Name, err)
	}

	dst, err := w.CreateHeader(&zip.FileHeader{
		Name:     f.Name,
		Method:   f.Method,
		Modified: f.Modified,
	})
	if err != nil {
		return fmt.Errorf("creating %s: %w", f.Name, err)
	}
	if _, err := io.WriteString(dst, replacer.Replace(string(data))); err != nil {
		return fmt.Errorf("writing %s: %w", f.Name, err)
	}
	return nil
}
