// Package writer exposes sinks for exported allocator encodings.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives one complete encoding.
type Sink interface {
	Put(buf []byte) error
}

// DefaultMode is the permission given to files created by FileWriter.
const DefaultMode os.FileMode = 0o644

// FileWriter writes an encoding to a filesystem path atomically.
// Either the whole buffer lands at Path or Path is left untouched.
type FileWriter struct {
	Path string
	Mode os.FileMode // DefaultMode when zero
}

// Put writes buf to the configured path via temp file + rename, creating the
// file or replacing its previous contents. A replaced file takes Mode, not
// its old permissions.
func (w *FileWriter) Put(buf []byte) error {
	// Same directory so the rename stays on one filesystem
	dir := filepath.Dir(w.Path)
	tmpFile, err := os.CreateTemp(dir, ".wordalloc-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, writeErr := tmpFile.Write(buf); writeErr != nil {
		return fmt.Errorf("write temp file: %w", writeErr)
	}

	mode := w.Mode
	if mode == 0 {
		mode = DefaultMode
	}
	if chmodErr := tmpFile.Chmod(mode); chmodErr != nil {
		return fmt.Errorf("chmod temp file: %w", chmodErr)
	}

	if syncErr := tmpFile.Sync(); syncErr != nil {
		return fmt.Errorf("sync temp file: %w", syncErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}
	tmpFile = nil

	if renameErr := os.Rename(tmpPath, w.Path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", renameErr)
	}

	return nil
}
