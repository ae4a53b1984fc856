package views

import (
	"fmt"
	"testing"

	"mediabrowse/internal/files"
	"mediabrowse/internal/tui/common"
	"mediabrowse/pkg/testutils"

	alsrt "github.com/alecthomas/assert"
	"github.com/stretchr/testify/assert"
)

// Mock model for testing
type mockModel struct {
	mode       common.Mode
	currentDir string
	entries    []files.Entry
	cursor     int
	offset     int
	height     int
	filter     string
	input      string
	target     string
	info       string
	preview    []string
	subject    string
	command    string
	spinner    string
	message    common.Message
}

func (m *mockModel) Mode() common.Mode      { return m.mode }
func (m *mockModel) Width() int             { return 120 }
func (m *mockModel) Height() int            { return 24 }
func (m *mockModel) CurrentDir() string     { return m.currentDir }
func (m *mockModel) Entries() []files.Entry { return m.entries }
func (m *mockModel) Category(e files.Entry) files.IconCategory {
	return files.Classify(e.Name, e.IsDir)
}
func (m *mockModel) Cursor() int       { return m.cursor }
func (m *mockModel) ScrollOffset() int { return m.offset }
func (m *mockModel) ListHeight() int {
	if m.height == 0 {
		return 10
	}
	return m.height
}
func (m *mockModel) FilterApplied() string   { return m.filter }
func (m *mockModel) FilterInputView() string { return m.input }
func (m *mockModel) Target() string          { return m.target }
func (m *mockModel) Info() string            { return m.info }
func (m *mockModel) PreviewRows() []string   { return m.preview }
func (m *mockModel) Subject() string         { return m.subject }
func (m *mockModel) ConvertCommand() string  { return m.command }
func (m *mockModel) SpinnerView() string     { return m.spinner }
func (m *mockModel) Message() common.Message { return m.message }
func (m *mockModel) HelpView() string        { return "↑ up • ↓ down • q quit" }

func mediaEntries() []files.Entry {
	return []files.Entry{
		{Name: "album", Path: "/test/album", IsDir: true},
		{Name: "photo.png", Path: "/test/photo.png", Size: 1024},
		{Name: "clip.mov", Path: "/test/clip.mov", Size: 3 * 1000 * 1000},
		{Name: "index.html", Path: "/test/index.html", Size: 10},
	}
}

func TestRenderMainView(t *testing.T) {
	tests := []struct {
		name     string
		model    *mockModel
		contains []string // Strings that should be present in the output
		excludes []string // Strings that should not be present in the output
	}{
		{
			name:  "empty directory",
			model: &mockModel{currentDir: "/test"},
			contains: []string{
				"Current directory",
				"/test",
				"Targeted file",
				"None selected (press s on .html/.md)",
				"No files found",
				"File info",
				"No preview",
			},
		},
		{
			name: "directory with files",
			model: &mockModel{
				currentDir: "/test",
				entries:    mediaEntries(),
				cursor:     1,
				info:       "photo.png\n1.0 KB\nDimensions: 4x2",
			},
			contains: []string{
				"  📁 album",
				"> 📒 photo.png",
				"  🎬 clip.mov",
				"1.0 kB",
				"3.0 MB",
				"Dimensions: 4x2",
			},
			excludes: []string{"No files found", "▲", "▼"},
		},
		{
			name: "filter and target",
			model: &mockModel{
				currentDir: "/test",
				entries:    mediaEntries()[1:2],
				filter:     "photo",
				target:     "/test/index.html",
			},
			contains: []string{"/test /photo", "/test/index.html"},
			excludes: []string{"None selected"},
		},
		{
			name: "scrolled list",
			model: &mockModel{
				currentDir: "/test",
				entries:    mediaEntries(),
				cursor:     2,
				offset:     1,
				height:     2,
			},
			contains: []string{"▲", "▼", "photo.png", "clip.mov"},
			excludes: []string{"album", "index.html"},
		},
		{
			name: "filter entry",
			model: &mockModel{
				mode:       common.FilterEntry,
				currentDir: "/test",
				input:      "/pho",
			},
			contains: []string{"/pho", "File info"},
		},
		{
			name: "delete confirmation",
			model: &mockModel{
				mode:       common.DeleteConfirm,
				currentDir: "/test",
				entries:    mediaEntries(),
				subject:    "photo.png",
			},
			contains: []string{`Sure you want to delete "photo.png" ?`, "y/n"},
			excludes: []string{"File info"},
		},
		{
			name: "video prompt",
			model: &mockModel{
				mode:       common.VideoSoundPrompt,
				currentDir: "/test",
				subject:    "clip.mov",
			},
			contains: []string{"Convert clip.mov to mp4. Keep sound? (y/n)"},
			excludes: []string{"File info"},
		},
		{
			name: "converting",
			model: &mockModel{
				mode:       common.Converting,
				currentDir: "/test",
				subject:    "photo.png",
				spinner:    "⣾ Converting photo.png to .webp...",
				command:    "ffmpeg -y -i /test/photo.png /test/photo.webp",
			},
			contains: []string{
				"Converting photo.png to .webp...",
				"ffmpeg -y -i /test/photo.png /test/photo.webp",
				"Press ESC to cancel",
			},
			excludes: []string{"File info"},
		},
		{
			name: "failure message",
			model: &mockModel{
				currentDir: "/test",
				message:    common.Message{Text: "Failed to delete: permission denied", Kind: common.Failure},
			},
			contains: []string{"Failed to delete: permission denied", "q quit"},
		},
		{
			name: "preview rows",
			model: &mockModel{
				currentDir: "/test",
				entries:    mediaEntries(),
				preview:    []string{"██  ", "  ██"},
			},
			contains: []string{"██"},
			excludes: []string{"No preview"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := testutils.StripANSI(RenderMainView(tt.model))

			// Check required strings are present
			for _, s := range tt.contains {
				assert.Contains(t, output, s, fmt.Sprintf("output should contain '%s'", s))
			}

			// Check excluded strings are not present
			for _, s := range tt.excludes {
				assert.NotContains(t, output, s, fmt.Sprintf("output should not contain '%s'", s))
			}
		})
	}
}

func TestRenderKeyCommands(t *testing.T) {
	output := testutils.StripANSI(RenderKeyCommands(&mockModel{}))
	for _, key := range []string{"up", "down", "quit"} {
		alsrt.Contains(t, output, key)
	}
}

func TestModalsReplaceBrowser(t *testing.T) {
	for _, mode := range []common.Mode{common.DeleteConfirm, common.VideoSoundPrompt, common.Converting} {
		t.Run(mode.String(), func(t *testing.T) {
			output := testutils.StripANSI(RenderMainView(&mockModel{
				mode:       mode,
				currentDir: "/test",
				entries:    mediaEntries(),
				subject:    "clip.mov",
				spinner:    "Converting clip.mov to .mp4...",
			}))
			alsrt.NotContains(t, output, "index.html")
			alsrt.NotContains(t, output, "File info")
			alsrt.Contains(t, output, "clip.mov")
		})
	}
}
