package ports

import "io/fs"

// FileSystem abstracts file system operations used by the persistence
// worker and the encode finalizer.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory.
	Remove(path string) error

	// RemoveAll deletes a path and everything below it.
	// A missing path is not an error.
	RemoveAll(path string) error

	// ReadDir lists the entries of a directory sorted by name.
	ReadDir(path string) ([]fs.DirEntry, error)

	// Rename moves a file.
	Rename(oldPath, newPath string) error
}
