// Package files lists directories and classifies their entries for the
// browser, and wraps the filesystem operations the browser is allowed to
// perform.
package files

import (
	"os"
	"path/filepath"
	"strings"

	serr "mediabrowse/internal/errors"
)

// Entry is a single directory entry as shown by the browser.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// Info is the subset of stat information the browser relies on.
type Info struct {
	IsDir bool
	Size  int64
}

// Provider is the filesystem collaborator. Every failure is a *errors.FileError
// whose kind tells not-found, permission-denied and generic I/O apart.
type Provider interface {
	List(dir string) ([]Entry, error)
	Stat(path string) (Info, error)
	ReadFile(path string) (string, error)
	WriteFile(path, content string) error
	DeleteRecursive(path string) error
}

// OS is the Provider backed by the local filesystem. Listings include dot
// entries; hiding them is up to the caller.
type OS struct{}

// NewOS returns a local filesystem provider.
func NewOS() *OS {
	return &OS{}
}

// List returns the entries of dir in the order the OS reports them (sorted by
// name). Entries that vanish between the read and the stat are skipped.
func (p *OS) List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, serr.FromOS("failed to read directory", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		path := filepath.Join(dir, de.Name())
		// Follow symlinks so a link to a directory can be entered
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:  de.Name(),
			Path:  path,
			IsDir: info.IsDir(),
			Size:  info.Size(),
		})
	}
	return entries, nil
}

// Stat returns directory flag and size for path.
func (p *OS) Stat(path string) (Info, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Info{}, serr.FromOS("failed to stat", path, err)
	}
	return Info{IsDir: info.IsDir(), Size: info.Size()}, nil
}

// ReadFile returns the content of path as text.
func (p *OS) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", serr.FromOS("failed to read file", path, err)
	}
	return string(data), nil
}

// WriteFile replaces the content of path atomically: the new content is
// written to a sibling temporary file which is then renamed over path. The
// original permission bits are kept.
func (p *OS) WriteFile(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return serr.FromOS("failed to create temporary file", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		cleanup()
		return serr.FromOS("failed to write file", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return serr.FromOS("failed to write file", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return serr.FromOS("failed to set permissions", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return serr.FromOS("failed to replace file", path, err)
	}
	return nil
}

// DeleteRecursive removes path and, for directories, everything below it.
// A missing path is reported as not found rather than silently ignored.
func (p *OS) DeleteRecursive(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return serr.FromOS("failed to delete", path, err)
	}
	if err := os.RemoveAll(path); err != nil {
		return serr.FromOS("failed to delete", path, err)
	}
	return nil
}

// BaseName returns name without its final extension.
func BaseName(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// ReplaceExt returns path with its final extension replaced by ext (which
// includes the leading dot).
func ReplaceExt(path, ext string) string {
	dir, name := filepath.Split(path)
	return dir + BaseName(name) + ext
}
