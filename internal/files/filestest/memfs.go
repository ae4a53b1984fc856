// Package filestest provides an in-memory files.Provider for tests.
package filestest

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	serr "mediabrowse/internal/errors"
	"mediabrowse/internal/files"
)

// MemFS is a files.Provider over an in-memory tree. Paths are cleaned before
// use; directories are implied by the files below them and may also be
// declared explicitly with AddDir.
type MemFS struct {
	mu     sync.Mutex
	files  map[string]string
	dirs   map[string]bool
	writes map[string]int

	// Errors injected per path and operation.
	ListErr   map[string]error
	ReadErr   map[string]error
	WriteErr  map[string]error
	DeleteErr map[string]error
}

// New returns an empty MemFS.
func New() *MemFS {
	return &MemFS{
		files:     make(map[string]string),
		dirs:      make(map[string]bool),
		writes:    make(map[string]int),
		ListErr:   make(map[string]error),
		ReadErr:   make(map[string]error),
		WriteErr:  make(map[string]error),
		DeleteErr: make(map[string]error),
	}
}

// AddFile creates a file and its parent directories.
func (m *MemFS) AddFile(path, content string) *MemFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.files[path] = content
	m.addParents(path)
	return m
}

// AddDir creates an empty directory and its parents.
func (m *MemFS) AddDir(path string) *MemFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.dirs[path] = true
	m.addParents(path)
	return m
}

func (m *MemFS) addParents(path string) {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		m.dirs[dir] = true
		if dir == filepath.Dir(dir) {
			return
		}
	}
}

// Writes returns how many times path was written.
func (m *MemFS) Writes(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[filepath.Clean(path)]
}

// Content returns the content of path and whether it exists.
func (m *MemFS) Content(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.files[filepath.Clean(path)]
	return c, ok
}

// Exists reports whether path is a file or directory.
func (m *MemFS) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	_, ok := m.files[path]
	return ok || m.dirs[path]
}

func (m *MemFS) List(dir string) ([]files.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir = filepath.Clean(dir)
	if err := m.ListErr[dir]; err != nil {
		return nil, err
	}
	if !m.dirs[dir] {
		return nil, serr.NewFileError("failed to read directory", dir, serr.FileNotFound, nil)
	}

	var entries []files.Entry
	for p, c := range m.files {
		if filepath.Dir(p) == dir {
			entries = append(entries, files.Entry{Name: filepath.Base(p), Path: p, Size: int64(len(c))})
		}
	}
	for p := range m.dirs {
		if p != dir && filepath.Dir(p) == dir {
			entries = append(entries, files.Entry{Name: filepath.Base(p), Path: p, IsDir: true})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (m *MemFS) Stat(path string) (files.Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if c, ok := m.files[path]; ok {
		return files.Info{Size: int64(len(c))}, nil
	}
	if m.dirs[path] {
		return files.Info{IsDir: true}, nil
	}
	return files.Info{}, serr.NewFileError("failed to stat", path, serr.FileNotFound, nil)
}

func (m *MemFS) ReadFile(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.ReadErr[path]; err != nil {
		return "", err
	}
	c, ok := m.files[path]
	if !ok {
		return "", serr.NewFileError("failed to read file", path, serr.FileNotFound, nil)
	}
	return c, nil
}

func (m *MemFS) WriteFile(path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.WriteErr[path]; err != nil {
		return err
	}
	m.files[path] = content
	m.writes[path]++
	m.addParents(path)
	return nil
}

func (m *MemFS) DeleteRecursive(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.DeleteErr[path]; err != nil {
		return err
	}
	_, isFile := m.files[path]
	if !isFile && !m.dirs[path] {
		return serr.NewFileError("failed to delete", path, serr.FileNotFound, nil)
	}
	prefix := path + string(filepath.Separator)
	for p := range m.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(m.files, p)
		}
	}
	for p := range m.dirs {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(m.dirs, p)
		}
	}
	return nil
}

var _ files.Provider = (*MemFS)(nil)
