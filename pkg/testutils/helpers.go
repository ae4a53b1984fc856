package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// CreateTree creates files with specific content below dir. Names may contain
// slashes; parent directories are created as needed. A name ending in a slash
// creates an empty directory.
func CreateTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// CreateMediaTree creates a small directory of media files and a target
// document referencing some of them.
func CreateMediaTree(t *testing.T, dir string) {
	t.Helper()
	CreateTree(t, dir, map[string]string{
		"photo.png":       "png",
		"clip.mov":        "mov",
		"notes.txt":       "text",
		"album/cover.jpg": "jpg",
		"index.html":      `<img src="photo.png"><video src="clip.mov"></video>`,
	})
}

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(str string) string {
	return ansi.Strip(str)
}
