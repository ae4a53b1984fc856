package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"mediabrowse/internal/convert"
	"mediabrowse/internal/files"
	"mediabrowse/internal/log"
	"mediabrowse/internal/tui/common"
	"mediabrowse/internal/tui/messages"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.shutdown()
		return m, tea.Quit
	}

	switch md := m.mode.(type) {
	case *filterMode:
		return m, m.handleFilterKeys(md, msg)
	case deleteConfirmMode:
		return m, m.handleDeleteKeys(md, msg)
	case videoPromptMode:
		return m, m.handleVideoPromptKeys(md, msg)
	case convertingMode:
		return m, m.handleConvertingKeys(md, msg)
	default:
		return m, m.handleNormalKeys(msg)
	}
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		m.shutdown()
		return tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
			return m.lookup()
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
			m.ensureVisible()
			return m.lookup()
		}

	case key.Matches(msg, keys.Enter):
		e, ok := m.selected()
		if !ok || !e.IsDir {
			return nil
		}
		m.stack.Push(Location{Dir: m.currentDir, Selected: m.cursor})
		return m.changeDir(e.Path, 0)

	case key.Matches(msg, keys.Back):
		loc, ok := m.stack.Pop()
		if !ok {
			return nil
		}
		return m.changeDir(loc.Dir, loc.Selected)

	case key.Matches(msg, keys.Open):
		e, ok := m.selected()
		if !ok || m.launcher == nil {
			return nil
		}
		return openCmd(m.launcher, e.Path)

	case key.Matches(msg, keys.Filter):
		m.clearMessage()
		m.mode = &filterMode{input: newFilterInput()}
		return textinput.Blink

	case key.Matches(msg, keys.Delete):
		if e, ok := m.selected(); ok {
			m.clearMessage()
			m.mode = deleteConfirmMode{entry: e}
		}

	case key.Matches(msg, keys.Convert):
		e, ok := m.selected()
		if !ok || e.IsDir || m.orchestrator == nil {
			return nil
		}
		switch {
		case m.imageExts.Has(e.Name):
			return m.startConversion(convert.PlanImageConversion(e.Path))
		case m.videoExts.Has(e.Name):
			m.clearMessage()
			m.mode = videoPromptMode{entry: e}
		}

	case key.Matches(msg, keys.Target):
		e, ok := m.selected()
		if !ok || e.IsDir || !files.TargetExtensions.Has(e.Name) {
			return nil
		}
		m.target = e.Path
		m.rewatch()
		m.logger.With(log.F("target", e.Path)).Info("target bound")
		return tea.Batch(m.setMessage("Target set to "+e.Name, common.Info), m.lookup())

	case key.Matches(msg, keys.Hidden):
		m.showHidden = !m.showHidden
		return m.reload()

	case key.Matches(msg, keys.Refresh):
		return m.reload()

	case key.Matches(msg, keys.Escape):
		if m.filterApplied != "" {
			m.filterApplied = ""
			m.cursor, m.scroll = 0, 0
			m.applyFilter()
			return m.lookup()
		}
	}
	return nil
}

func (m *Model) handleFilterKeys(f *filterMode, msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.filterApplied = f.input.Value()
	case tea.KeyEsc:
		m.filterApplied = ""
	default:
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return cmd
	}
	m.mode = normalMode{}
	m.cursor, m.scroll = 0, 0
	m.applyFilter()
	return m.lookup()
}

func (m *Model) handleDeleteKeys(d deleteConfirmMode, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Yes):
		m.mode = normalMode{}
		logger := m.logger.With(log.F("path", d.entry.Path))
		if err := m.fs.DeleteRecursive(d.entry.Path); err != nil {
			logger.WithError(err).Error("delete failed")
			return m.setMessage("Failed to delete: "+err.Error(), common.Failure)
		}
		logger.Info("deleted")
		m.clearMessage()
		if m.target != "" && within(m.target, d.entry.Path) {
			m.target = ""
			m.rewatch()
		}
		m.cursor, m.scroll = 0, 0
		cmd := m.readDir()
		return tea.Batch(cmd, m.lookup())

	case key.Matches(msg, keys.No), key.Matches(msg, keys.Escape):
		m.clearMessage()
		m.mode = normalMode{}
	}
	return nil
}

func (m *Model) handleVideoPromptKeys(v videoPromptMode, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Yes):
		return m.startConversion(convert.PlanVideoConversion(v.entry.Path, true))
	case key.Matches(msg, keys.No):
		return m.startConversion(convert.PlanVideoConversion(v.entry.Path, false))
	case key.Matches(msg, keys.Escape):
		m.mode = normalMode{}
	}
	return nil
}

func (m *Model) handleConvertingKeys(c convertingMode, msg tea.KeyMsg) tea.Cmd {
	if !key.Matches(msg, keys.Escape) {
		return nil
	}
	c.cancel()
	m.convGen++
	m.mode = normalMode{}
	m.status.SetLoading(false)
	m.logger.With(log.F("input", c.plan.Input)).Info("conversion cancelled")
	return m.setMessage("Conversion of "+filepath.Base(c.plan.Input)+" cancelled", common.Info)
}

func (m *Model) startConversion(plan convert.Plan) tea.Cmd {
	m.convGen++
	ctx, cancel := context.WithCancel(context.Background())
	m.mode = convertingMode{
		plan:    plan,
		gen:     m.convGen,
		cancel:  cancel,
		command: plan.CommandLine(m.orchestrator.Executable()),
	}
	m.clearMessage()
	m.status.SetText(fmt.Sprintf("Converting %s to %s...", filepath.Base(plan.Input), plan.NewExt))
	m.status.SetLoading(true)
	return tea.Batch(convertCmd(ctx, m.orchestrator, plan, m.target, m.convGen), m.status.Tick())
}

// handleConverted applies the result of the conversion issued under msg.Gen.
// Results of cancelled conversions are dropped.
func (m *Model) handleConverted(msg messages.ConvertedMsg) tea.Cmd {
	c, ok := m.mode.(convertingMode)
	if !ok || msg.Gen != c.gen {
		m.logger.With(log.F("gen", msg.Gen)).Debug("stale conversion result dropped")
		return nil
	}
	c.cancel()
	m.mode = normalMode{}
	m.status.SetLoading(false)

	res := msg.Result
	name := filepath.Base(res.Plan.Input)
	var cmd tea.Cmd
	switch {
	case res.Err != nil:
		m.setPersistentMessage(fmt.Sprintf("Failed to convert %s: %v", name, res.Err), common.Failure)
	case res.RewriteErr != nil:
		m.setPersistentMessage(res.Message(), common.Failure)
	case res.Message() != "":
		cmd = m.setMessage(res.Message(), common.Success)
	default:
		cmd = m.setMessage(fmt.Sprintf("Converted %s to %s", name, filepath.Base(res.Plan.Output)), common.Success)
	}
	return tea.Batch(cmd, m.reload())
}

// within reports whether path is root or lies below it.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
