// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
package filesystem

import (
	"io"
	"os"
)

// GacheFs exposes the active backend through the gache.FileSystem interface so cached
// values live on the same filesystem as everything else.
type GacheFs struct{}

func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
