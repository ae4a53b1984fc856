package components

import (
	"strings"
	"testing"

	"mediabrowse/internal/files"
	"mediabrowse/pkg/testutils"

	"github.com/stretchr/testify/assert"
)

func entries(names ...string) []files.Entry {
	out := make([]files.Entry, len(names))
	for i, n := range names {
		out[i] = files.Entry{Name: n, Path: "/d/" + n, Size: 2048}
	}
	return out
}

func TestFileListWindow(t *testing.T) {
	fl := FileList{
		Entries: entries("a.png", "b.mov", "c.txt", "d.md", "e.zip"),
		Cursor:  2,
		Offset:  1,
		Height:  2,
	}
	out := testutils.StripANSI(fl.View())

	assert.NotContains(t, out, "a.png")
	assert.Contains(t, out, "b.mov")
	assert.Contains(t, out, "> 📝 c.txt")
	assert.NotContains(t, out, "d.md")
	assert.Contains(t, out, "▲")
	assert.Contains(t, out, "▼")
	assert.Contains(t, out, "2.0 kB")
}

func TestFileListNoIndicatorsWhenItFits(t *testing.T) {
	fl := FileList{Entries: entries("a.png", "b.png"), Height: 5}
	out := testutils.StripANSI(fl.View())

	assert.NotContains(t, out, "▲")
	assert.NotContains(t, out, "▼")
	assert.Contains(t, out, "> 📒 a.png")
	assert.Contains(t, out, "  📒 b.png")
}

func TestFileListDirectoryHasNoSize(t *testing.T) {
	fl := FileList{Entries: []files.Entry{{Name: "album", IsDir: true, Size: 4096}}, Height: 3}
	out := testutils.StripANSI(fl.View())

	assert.Contains(t, out, "📁 album")
	assert.NotContains(t, out, "kB")
}

func TestFileListEmpty(t *testing.T) {
	assert.Equal(t, "No files found", testutils.StripANSI(FileList{Height: 3}.View()))
}

func TestFileListAlignsSizes(t *testing.T) {
	fl := FileList{Entries: entries("a.png", "longer-name.png"), Height: 3, Width: 40}
	lines := strings.Split(strings.TrimSpace(testutils.StripANSI(fl.View())), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, len([]rune(lines[0])), len([]rune(lines[1])))
}

func TestStatusBar(t *testing.T) {
	sb := NewStatusBar()
	assert.Empty(t, sb.View())

	sb.SetText("Converting a.png to .webp...")
	assert.Equal(t, "Converting a.png to .webp...", testutils.StripANSI(sb.View()))

	sb.SetLoading(true)
	assert.True(t, sb.Loading())
	assert.NotNil(t, sb.Tick())
	assert.Contains(t, testutils.StripANSI(sb.View()), "Converting a.png to .webp...")
}
