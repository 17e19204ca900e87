// Package asset manages the optional QR image file.
//
// Absence of the file is a modelled state, not an error: the page shows a
// placeholder until an owner uploads an image.
package asset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/unon-ymous/Pay-page/internal/metrics"
)

// Store is the QR image asset at a fixed path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the fixed asset location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether an image is currently present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Put overwrites the asset with data via write-temp-then-rename.
func (s *Store) Put(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create asset dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write asset temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace asset file: %w", err)
	}
	metrics.AssetOpsTotal.WithLabelValues("put").Inc()
	return nil
}

// Remove deletes the asset. Removing an absent asset is a no-op.
func (s *Store) Remove() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove asset file: %w", err)
	}
	metrics.AssetOpsTotal.WithLabelValues("remove").Inc()
	return nil
}
