// Package fs defines the local filesystem abstraction downloaded objects are written to.
package fs

import "os"

// File represents an open file handle supporting basic I/O operations.
// Implementations should behave consistently with the standard library.
type File interface {
	Close() error
	Name() string
	Read(p []byte) (n int, err error)
	Stat() (os.FileInfo, error)
	Write(p []byte) (n int, err error)
}

// Filesystem is the destination side of a bucket download.
type Filesystem interface {
	// Create creates or truncates the named file.
	Create(name string) (File, error)

	// Exists reports whether path exists.
	Exists(path string) (bool, error)

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string, perm os.FileMode) error

	// Open opens the named file for reading.
	Open(name string) (File, error)

	// ReadDir lists the entries of a directory.
	ReadDir(dirname string) ([]os.FileInfo, error)

	// ReadFile reads the whole named file.
	ReadFile(path string) ([]byte, error)

	// Remove removes the named file or empty directory.
	Remove(name string) error

	// Stat returns file info for name.
	Stat(name string) (os.FileInfo, error)

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(filename string, data []byte, perm os.FileMode) error
}
