package components

import (
	"fmt"
	"strings"

	"mediabrowse/internal/files"
	"mediabrowse/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	moreAbove = "▲"
	moreBelow = "▼"
)

// FileList renders the visible window of a directory listing.
type FileList struct {
	Entries  []files.Entry
	Category func(files.Entry) files.IconCategory
	Cursor   int
	Offset   int
	Height   int
	Width    int
}

func (fl FileList) category(e files.Entry) files.IconCategory {
	if fl.Category != nil {
		return fl.Category(e)
	}
	return files.Classify(e.Name, e.IsDir)
}

// Row renders entry i of the listing.
func (fl FileList) Row(i int) string {
	e := fl.Entries[i]

	style := styles.Theme.Entry
	cursor := " "
	if i == fl.Cursor {
		cursor = ">"
		style = styles.Theme.Selected
	}

	details := ""
	if !e.IsDir {
		details = humanize.Bytes(uint64(e.Size))
	}

	name := fmt.Sprintf("%s %s %s", cursor, fl.category(e).Icon(), e.Name)
	if fl.Width > 0 && details != "" {
		gap := fl.Width - lipgloss.Width(name) - lipgloss.Width(details)
		if gap < 1 {
			gap = 1
		}
		return style.Render(name) + strings.Repeat(" ", gap) + styles.Theme.Muted.Render(details)
	}
	if details != "" {
		return style.Render(name) + "  " + styles.Theme.Muted.Render(details)
	}
	return style.Render(name)
}

func (fl FileList) View() string {
	if len(fl.Entries) == 0 {
		return styles.Theme.Muted.Render("No files found")
	}

	height := max(1, fl.Height)
	end := min(len(fl.Entries), fl.Offset+height)

	var s strings.Builder
	if fl.Offset > 0 {
		s.WriteString(styles.Theme.Muted.Render(moreAbove))
	}
	s.WriteString("\n")
	for i := fl.Offset; i < end; i++ {
		s.WriteString(fl.Row(i))
		s.WriteString("\n")
	}
	if end < len(fl.Entries) {
		s.WriteString(styles.Theme.Muted.Render(moreBelow))
	}
	return s.String()
}
