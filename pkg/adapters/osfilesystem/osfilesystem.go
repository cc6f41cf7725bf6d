// Package osfilesystem provides the frame store on the local disk.
package osfilesystem

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/user/framerec/pkg/ports"
)

// FileSystem implements ports.FileSystem using the os package.
type FileSystem struct{}

// New creates a new FileSystem.
func New() *FileSystem {
	return &FileSystem{}
}

// ReadFile reads the entire contents of a file.
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file, creating the parent directory if needed.
// Data is written to a sibling temp file and renamed so a reader never sees
// a partially written frame.
func (f *FileSystem) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// MkdirAll creates a directory and all parent directories.
func (f *FileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// Exists checks if a file or directory exists.
func (f *FileSystem) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Remove deletes a file or empty directory.
func (f *FileSystem) Remove(path string) error {
	return os.Remove(path)
}

// RemoveAll deletes path recursively.
func (f *FileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// ReadDir lists a directory sorted by file name.
func (f *FileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// Rename moves oldPath to newPath.
func (f *FileSystem) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

var _ ports.FileSystem = (*FileSystem)(nil)
