package ports

import (
	"os"
)

// FileSystem provides the file system operations the installer needs.
// Steps and the secret store go through this interface so tests can
// substitute an in-memory host state.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	IsDir(path string) bool
	MkdirAll(path string, perm os.FileMode) error
	Chmod(path string, perm os.FileMode) error
	Stat(path string) (os.FileInfo, error)
	Remove(path string) error
	RemoveAll(path string) error
}
