package views

import (
	"fmt"
	"strings"

	"mediabrowse/internal/tui/common"
	"mediabrowse/internal/tui/components"
	"mediabrowse/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

const (
	noTarget  = "None selected (press s on .html/.md)"
	noPreview = "No preview"
	listWidth = 40
	infoWidth = 36
)

func RenderMainView(m common.ModelReader) string {
	var sb strings.Builder

	sb.WriteString(renderHeader(m))
	sb.WriteString("\n")

	switch m.Mode() {
	case common.FilterEntry:
		sb.WriteString(styles.Theme.Input.Render(m.FilterInputView()))
		sb.WriteString("\n")
		sb.WriteString(renderBrowser(m))
	case common.DeleteConfirm:
		sb.WriteString(renderDeleteConfirm(m))
	case common.VideoSoundPrompt:
		sb.WriteString(renderVideoPrompt(m))
	case common.Converting:
		sb.WriteString(renderConverting(m))
	default:
		sb.WriteString(renderBrowser(m))
	}

	sb.WriteString("\n")
	sb.WriteString(renderFooter(m))

	return styles.Theme.App.Render(sb.String())
}

func renderHeader(m common.ModelReader) string {
	dir := styles.Theme.Directory.Render(m.CurrentDir())
	if f := m.FilterApplied(); f != "" {
		dir += styles.Theme.Filter.Render(" /" + f)
	}

	target := styles.Theme.NoTarget.Render(noTarget)
	if t := m.Target(); t != "" {
		target = styles.Theme.Target.Render(t)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Theme.Label.Render("Current directory"),
		dir,
		styles.Theme.Label.Render("Targeted file"),
		target,
	)
}

func renderBrowser(m common.ModelReader) string {
	list := components.FileList{
		Entries:  m.Entries(),
		Category: m.Category,
		Cursor:   m.Cursor(),
		Offset:   m.ScrollOffset(),
		Height:   m.ListHeight(),
		Width:    listWidth,
	}

	info := lipgloss.JoinVertical(lipgloss.Left,
		styles.Theme.Label.Render("File info"),
		m.Info(),
	)

	preview := styles.Theme.Muted.Render(noPreview)
	if rows := m.PreviewRows(); len(rows) > 0 {
		preview = strings.Join(rows, "\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Theme.Panel.Width(listWidth+2).Render(list.View()),
		styles.Theme.Panel.Width(infoWidth).Render(info),
		preview,
	)
}

func renderDeleteConfirm(m common.ModelReader) string {
	return styles.Theme.Danger.Render(lipgloss.JoinVertical(lipgloss.Center,
		fmt.Sprintf("Sure you want to delete %q ?", m.Subject()),
		"",
		renderChoice(),
	))
}

func renderVideoPrompt(m common.ModelReader) string {
	return styles.Theme.Modal.Render(lipgloss.JoinVertical(lipgloss.Center,
		fmt.Sprintf("Convert %s to mp4. Keep sound? (y/n)", m.Subject()),
		"",
		renderChoice(),
	))
}

func renderChoice() string {
	return styles.Theme.Yes.Render("y") + styles.Theme.Muted.Render("/") + styles.Theme.No.Render("n")
}

func renderConverting(m common.ModelReader) string {
	lines := []string{m.SpinnerView()}
	if cmd := m.ConvertCommand(); cmd != "" {
		lines = append(lines, "", styles.Theme.Muted.Render(cmd))
	}
	lines = append(lines, "", styles.Theme.Hint.Render("Press ESC to cancel"))
	return styles.Theme.Modal.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func renderFooter(m common.ModelReader) string {
	var sb strings.Builder
	if msg := m.Message(); msg.Text != "" {
		style := styles.Theme.Info
		switch msg.Kind {
		case common.Success:
			style = styles.Theme.Success
		case common.Failure:
			style = styles.Theme.Error
		}
		sb.WriteString(style.Render(msg.Text))
	}
	sb.WriteString("\n")
	sb.WriteString(RenderKeyCommands(m))
	return sb.String()
}

// RenderKeyCommands renders the key help line.
func RenderKeyCommands(m common.ModelReader) string {
	return styles.Theme.Help.Render(m.HelpView())
}
