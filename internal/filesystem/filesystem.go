package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Filesystem is the slice of the host filesystem used to expand input
// patterns and normalize output paths. Tests substitute an in-memory version.
type Filesystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	Getwd() (string, error)
	Abs(path string) (string, error)
}

// DefaultFS implements the Filesystem interface using the standard `os` and `filepath` packages.
type DefaultFS struct{}

func (DefaultFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (DefaultFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (DefaultFS) Getwd() (string, error) {
	return os.Getwd()
}

func (DefaultFS) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// RelativeToWorkingDir expresses path relative to the working directory of
// fsys. Relative paths and paths that cannot be relativized are returned
// cleaned but otherwise unchanged.
func RelativeToWorkingDir(fsys Filesystem, path string) string {
	if !filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	cwd, err := fsys.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return rel
}
