package tui

import (
	"context"
	"slices"
	"time"

	"mediabrowse/internal/convert"
	"mediabrowse/internal/launcher"
	"mediabrowse/internal/media"
	"mediabrowse/internal/tui/messages"
	"mediabrowse/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
)

// refreshDelay coalesces bursts of filesystem events into one reload.
const refreshDelay = 200 * time.Millisecond

func describeCmd(ctx context.Context, d *media.Describer, gen int, dir, name, target string) tea.Cmd {
	return func() tea.Msg {
		return messages.DescribedMsg{Gen: gen, Text: d.Describe(ctx, dir, name, target)}
	}
}

func previewCmd(ctx context.Context, images media.ImageDecoder, gen int, path string, width int) tea.Cmd {
	return func() tea.Msg {
		img, err := images.Decode(ctx, path)
		if err != nil {
			return messages.PreviewMsg{Gen: gen, Err: err}
		}
		return messages.PreviewMsg{Gen: gen, Rows: slices.Collect(media.Sample(img, width).Rows())}
	}
}

func convertCmd(ctx context.Context, o *convert.Orchestrator, plan convert.Plan, target string, gen int) tea.Cmd {
	return func() tea.Msg {
		return messages.ConvertedMsg{Gen: gen, Result: o.Run(ctx, plan, target)}
	}
}

func openCmd(l launcher.Launcher, path string) tea.Cmd {
	return func() tea.Msg {
		return messages.OpenedMsg{Path: path, Err: l.Open(path)}
	}
}

func clearMessageCmd(ttl time.Duration, id int) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return messages.ClearMessageMsg{ID: id}
	})
}

func refreshCmd() tea.Cmd {
	return tea.Tick(refreshDelay, func(time.Time) tea.Msg {
		return messages.RefreshMsg{}
	})
}

// waitForChange blocks on the watcher's channel and delivers the next change.
// It yields nothing once the watcher has been stopped.
func waitForChange(changes <-chan watch.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-changes
		if !ok {
			return nil
		}
		return messages.FSChangeMsg{Change: c}
	}
}
