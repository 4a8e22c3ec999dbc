// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
//
// The afero backend is swappable so tests can run against an in-memory filesystem.
package filesystem

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the native operating system backend.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory backend.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// WriteAtomic writes data to a sibling temporary file, then renames it over path.
func WriteAtomic(path string, data []byte) error {
	if err := backend.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := backend.WriteFile(tmp, data, 0644); err != nil {
		return err
	}

	if err := backend.Rename(tmp, path); err != nil {
		_ = backend.Remove(tmp)
		return err
	}
	return nil
}
