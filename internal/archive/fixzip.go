package archive

import (
	"fmt"
	"os"

	fixzip "github.com/hidez8891/zip"
	"go.uber.org/multierr"
)

// StripDataDescriptors copies the archive at from to to, clearing the
// streaming data-descriptor flag on every entry. Some strict readers refuse
// packages whose local headers defer sizes to a trailing descriptor.
// On failure to is removed and the error wraps ErrPackaging.
func StripDataDescriptors(from, to string) (err error) {
	defer func() {
		if err != nil {
			_ = os.Remove(to)
			err = fmt.Errorf("%w: %v", ErrPackaging, err)
		}
	}()

	out, err := os.Create(to) // #nosec G304 -- caller-controlled path
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	for _, file := range r.File {
		file.Flags &= ^fixzip.FlagDataDescriptor

		if err := w.CopyFile(file); err != nil {
			_ = w.Close()
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return w.Close()
}
