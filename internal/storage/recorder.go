package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cptspacemanspiff/battery-tracker/internal/collector"
)

// Recorder appends samples to a record log, creating it with a header when
// it does not exist.
type Recorder struct {
	path string
	mu   sync.Mutex
}

// NewRecorder returns a recorder for the log at path. Nothing is touched on
// disk until the first Append.
func NewRecorder(path string) *Recorder {
	return &Recorder{path: path}
}

// Path returns the log location.
func (r *Recorder) Path() string {
	return r.path
}

// Append writes s as one record. The file is opened and closed on every call
// so that external rotation or deletion is picked up on the next sample.
func (r *Recorder) Append(s collector.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureHeader(); err != nil {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if _, err := f.WriteString(EncodeRecord(s) + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("append record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

func (r *Recorder) ensureHeader() error {
	if _, err := os.Stat(r.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat log: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	// O_EXCL: another recorder may have created the file in the meantime.
	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	if _, err := f.WriteString(Header + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	return f.Close()
}
