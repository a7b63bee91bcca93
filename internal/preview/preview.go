// Package preview manages transient display handles for photos. A handle
// lets a binder render a photo without re-reading its stored bytes and is
// released exactly once when the photo leaves the working set.
package preview

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Handle is a transient display reference for one photo. Release frees
// the underlying resource; calling it more than once is a no-op.
type Handle interface {
	Path() string
	Release() error
}

// Factory derives a Handle from a photo's stored bytes.
type Factory interface {
	Derive(id, name string, content []byte) (Handle, error)
}

// FileFactory materializes previews as files under a directory, one per
// photo id. Release removes the file.
type FileFactory struct {
	dir string
}

func NewFileFactory(dir string) (*FileFactory, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}
	return &FileFactory{dir: dir}, nil
}

func (f *FileFactory) Derive(id, name string, content []byte) (Handle, error) {
	path := filepath.Join(f.dir, id+filepath.Ext(name))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write preview for %s: %w", id, err)
	}
	return &fileHandle{path: path}, nil
}

type fileHandle struct {
	path string
	once sync.Once
	err  error
}

func (h *fileHandle) Path() string {
	return h.path
}

func (h *fileHandle) Release() error {
	h.once.Do(func() {
		if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
			h.err = err
		}
	})
	return h.err
}

// NopFactory produces handles with no backing resource, for callers that
// do not render previews.
type NopFactory struct{}

func (NopFactory) Derive(id, name string, content []byte) (Handle, error) {
	return nopHandle{}, nil
}

type nopHandle struct{}

func (nopHandle) Path() string   { return "" }
func (nopHandle) Release() error { return nil }
