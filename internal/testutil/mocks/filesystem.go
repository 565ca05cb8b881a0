package mocks

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// FileSystem is an in-memory test double for ports.FileSystem.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	modes map[string]os.FileMode
	dirs  map[string]bool

	// FailWrite and FailChmod inject errors for the named paths.
	FailWrite map[string]error
	FailChmod map[string]error
}

// NewFileSystem creates an empty in-memory file system.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:     make(map[string][]byte),
		modes:     make(map[string]os.FileMode),
		dirs:      make(map[string]bool),
		FailWrite: make(map[string]error),
		FailChmod: make(map[string]error),
	}
}

// ReadFile returns the stored content for path.
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	data, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteFile stores content for path.
func (f *FileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.FailWrite[path]; ok {
		// A failed write still leaves a partial file behind, matching
		// the interrupted-write behavior the secret store defends
		// against.
		f.files[path] = nil
		f.modes[path] = perm
		return err
	}
	f.files[path] = append([]byte(nil), data...)
	f.modes[path] = perm
	return nil
}

// Exists reports whether path is a stored file or directory.
func (f *FileSystem) Exists(path string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if _, ok := f.files[path]; ok {
		return true
	}
	return f.dirs[path]
}

// IsDir reports whether path is a stored directory.
func (f *FileSystem) IsDir(path string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dirs[path]
}

// MkdirAll records path and its parents as directories.
func (f *FileSystem) MkdirAll(path string, perm os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	cur := ""
	for _, p := range parts {
		cur += "/" + p
		f.dirs[cur] = true
		f.modes[cur] = perm
	}
	return nil
}

// Chmod updates the stored mode for path.
func (f *FileSystem) Chmod(path string, perm os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.FailChmod[path]; ok {
		return err
	}
	if _, ok := f.files[path]; !ok && !f.dirs[path] {
		return os.ErrNotExist
	}
	f.modes[path] = perm
	return nil
}

// Stat returns synthetic file info for path.
func (f *FileSystem) Stat(path string) (os.FileInfo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	data, isFile := f.files[path]
	if !isFile && !f.dirs[path] {
		return nil, os.ErrNotExist
	}
	return fakeFileInfo{
		name:  path[strings.LastIndex(path, "/")+1:],
		size:  int64(len(data)),
		mode:  f.modes[path],
		isDir: !isFile,
	}, nil
}

// Remove deletes the file at path.
func (f *FileSystem) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; !ok {
		return os.ErrNotExist
	}
	delete(f.files, path)
	delete(f.modes, path)
	return nil
}

// RemoveAll deletes path and everything below it.
func (f *FileSystem) RemoveAll(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(path, "/") + "/"
	for p := range f.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(f.files, p)
			delete(f.modes, p)
		}
	}
	for d := range f.dirs {
		if d == path || strings.HasPrefix(d, prefix) {
			delete(f.dirs, d)
		}
	}
	return nil
}

// Mode returns the stored permission bits for path.
func (f *FileSystem) Mode(path string) (os.FileMode, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	mode, ok := f.modes[path]
	return mode, ok
}

// Paths returns the stored file paths, sorted.
func (f *FileSystem) Paths() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.files))
	for p := range f.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

type fakeFileInfo struct {
	name  string
	size  int64
	mode  os.FileMode
	isDir bool
}

func (i fakeFileInfo) Name() string       { return i.name }
func (i fakeFileInfo) Size() int64        { return i.size }
func (i fakeFileInfo) Mode() os.FileMode  { return i.mode }
func (i fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (i fakeFileInfo) IsDir() bool        { return i.isDir }
func (i fakeFileInfo) Sys() interface{}   { return nil }

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
