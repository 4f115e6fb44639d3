// Package snapshot keeps a human-readable copy of the most recent event on
// disk.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/delivery-event-generator/internal/domain"
)

// Writer overwrites a single file with each event it is given.
type Writer struct {
	path string
}

// NewWriter returns a Writer targeting path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the target file.
func (w *Writer) Path() string { return w.path }

// Write replaces the file contents with the indented event. The new contents
// are staged in a temp file in the same directory and renamed into place, so
// readers never observe a partial write.
func (w *Writer) Write(event domain.Event) error {
	data, err := domain.MarshalEventIndent(event)
	if err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
