package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mediabrowse/internal/config"
	"mediabrowse/internal/convert"
	"mediabrowse/internal/files"
	"mediabrowse/internal/launcher"
	"mediabrowse/internal/log"
	"mediabrowse/internal/media"
	"mediabrowse/internal/tui/common"
	"mediabrowse/internal/tui/components"
	"mediabrowse/internal/tui/messages"
	"mediabrowse/internal/tui/views"
	"mediabrowse/internal/watch"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultHeight = 24

// Deps are the collaborators of the browser. Watcher and Images may be nil.
type Deps struct {
	FS           files.Provider
	Describer    *media.Describer
	Images       media.ImageDecoder
	Orchestrator *convert.Orchestrator
	Watcher      *watch.Watcher
	Launcher     launcher.Launcher
	Logger       *log.Logger
}

type Model struct {
	// Collaborators
	fs           files.Provider
	describer    *media.Describer
	images       media.ImageDecoder
	orchestrator *convert.Orchestrator
	watcher      *watch.Watcher
	launcher     launcher.Launcher
	logger       *log.Logger

	// Settings
	imageExts    files.ExtSet
	videoExts    files.ExtSet
	previewWidth int
	messageTTL   time.Duration
	listPadding  int

	// Core state
	mode          mode
	currentDir    string
	listing       []files.Entry
	entries       []files.Entry
	cursor        int
	scroll        int
	filterApplied string
	showHidden    bool
	stack         Stack
	target        string

	// Selection details, valid for selGen
	info         string
	preview      []string
	selGen       int
	lookupCancel context.CancelFunc

	convGen int
	status  *components.StatusBar

	message   common.Message
	messageID int

	refreshPending bool
	// A pending refresh touched the selection or the target
	refreshLookup bool

	width  int
	height int
	help   help.Model

	// startup holds commands produced before Init
	startup []tea.Cmd
}

// New creates the browser rooted at cfg.Browser.StartDir and reads its
// listing.
func New(cfg *config.Config, deps Deps) *Model {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	dir := cfg.Browser.StartDir
	if dir == "" || dir == "." {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		dir = wd
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	target := cfg.Browser.TargetFile
	if target != "" {
		if abs, err := filepath.Abs(target); err == nil {
			target = abs
		}
	}

	m := &Model{
		fs:           deps.FS,
		describer:    deps.Describer,
		images:       deps.Images,
		orchestrator: deps.Orchestrator,
		watcher:      deps.Watcher,
		launcher:     deps.Launcher,
		logger:       logger,
		imageExts:    files.ExtSet(cfg.Media.ImageExtensions),
		videoExts:    files.ExtSet(cfg.Media.VideoExtensions),
		previewWidth: cfg.Media.PreviewWidth,
		messageTTL:   time.Duration(cfg.Browser.MessageTTL) * time.Second,
		listPadding:  cfg.Browser.ListPadding,
		mode:         normalMode{},
		currentDir:   dir,
		showHidden:   cfg.Browser.ShowHidden,
		target:       target,
		status:       components.NewStatusBar(),
		height:       defaultHeight,
		help:         help.New(),
	}
	if m.messageTTL <= 0 {
		m.messageTTL = 4 * time.Second
	}
	if cmd := m.readDir(); cmd != nil {
		m.startup = append(m.startup, cmd)
	}
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	cmds := append(m.startup, m.lookup())
	m.startup = nil
	if m.watcher != nil && m.watcher.IsRunning() {
		m.rewatch()
		cmds = append(cmds, waitForChange(m.watcher.Changes()))
	}
	return tea.Batch(cmds...)
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		return m, nil

	case messages.DescribedMsg:
		if msg.Gen != m.selGen {
			return m, nil
		}
		m.info = msg.Text
		return m, nil

	case messages.PreviewMsg:
		if msg.Gen != m.selGen {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.WithError(msg.Err).Debug("preview unavailable")
			m.preview = nil
			return m, nil
		}
		m.preview = msg.Rows
		return m, nil

	case messages.ConvertedMsg:
		return m, m.handleConverted(msg)

	case messages.OpenedMsg:
		if msg.Err != nil {
			m.logger.With(log.F("path", msg.Path)).WithError(msg.Err).Warn("open with default application failed")
		}
		return m, nil

	case messages.ClearMessageMsg:
		if msg.ID == m.messageID {
			m.message = common.Message{}
		}
		return m, nil

	case messages.FSChangeMsg:
		var cmds []tea.Cmd
		if m.touchesSelection(msg.Change.Path) {
			m.refreshLookup = true
		}
		if !m.refreshPending {
			m.refreshPending = true
			cmds = append(cmds, refreshCmd())
		}
		if m.watcher != nil {
			cmds = append(cmds, waitForChange(m.watcher.Changes()))
		}
		if len(cmds) == 0 {
			return m, nil
		}
		return m, tea.Batch(cmds...)

	case messages.RefreshMsg:
		force := m.refreshLookup
		m.refreshPending = false
		m.refreshLookup = false
		return m, m.refresh(force)

	case spinner.TickMsg:
		if !m.status.Loading() {
			return m, nil
		}
		return m, m.status.Update(msg)
	}
	return m, nil
}

// readDir reads the current directory. An unreadable directory yields an
// empty listing and a transient message.
func (m *Model) readDir() tea.Cmd {
	var cmd tea.Cmd
	listing, err := m.fs.List(m.currentDir)
	if err != nil {
		m.logger.With(log.F("dir", m.currentDir)).WithError(err).Warn("cannot list directory")
		listing = nil
		cmd = m.setMessage("Cannot read "+m.currentDir+": "+err.Error(), common.Failure)
	}
	m.listing = listing
	m.applyFilter()
	return cmd
}

// applyFilter derives the visible entries and clamps the selection.
func (m *Model) applyFilter() {
	visible := m.listing
	if !m.showHidden {
		visible = make([]files.Entry, 0, len(m.listing))
		for _, e := range m.listing {
			if !strings.HasPrefix(e.Name, ".") {
				visible = append(visible, e)
			}
		}
	}
	m.entries = files.Filter(visible, m.filterApplied)
	if m.cursor > len(m.entries)-1 {
		m.cursor = max(0, len(m.entries)-1)
	}
	m.ensureVisible()
}

// reload reads the listing again, keeping the selection where possible.
func (m *Model) reload() tea.Cmd {
	return m.refresh(true)
}

// refresh reads the listing again and restores the selection by name. Unless
// forced, the selection details are kept when the selected entry is
// unchanged.
func (m *Model) refresh(force bool) tea.Cmd {
	prev, hadPrev := m.selected()
	cmd := m.readDir()
	for i, e := range m.entries {
		if e.Name == prev.Name {
			m.cursor = i
			break
		}
	}
	m.ensureVisible()
	if cur, ok := m.selected(); !force && hadPrev && ok && cur == prev {
		return cmd
	}
	return tea.Batch(cmd, m.lookup())
}

// touchesSelection reports whether a change to path can alter the selection
// details.
func (m *Model) touchesSelection(path string) bool {
	path = filepath.Clean(path)
	if m.target != "" && path == filepath.Clean(m.target) {
		return true
	}
	e, ok := m.selected()
	return ok && path == filepath.Clean(e.Path)
}

// changeDir switches to dir with the given selection.
func (m *Model) changeDir(dir string, cursor int) tea.Cmd {
	m.currentDir = dir
	m.cursor = cursor
	m.scroll = 0
	cmd := m.readDir()
	m.ensureVisible()
	m.rewatch()
	return tea.Batch(cmd, m.lookup())
}

func (m *Model) selected() (files.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return files.Entry{}, false
	}
	return m.entries[m.cursor], true
}

// ensureVisible moves the scroll offset by the least amount that keeps the
// cursor inside the viewport.
func (m *Model) ensureVisible() {
	h := m.ListHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+h {
		m.scroll = m.cursor - h + 1
	}
	m.scroll = min(m.scroll, max(0, len(m.entries)-h))
	m.scroll = max(m.scroll, 0)
}

// lookup starts the info and preview requests for the selected entry. Older
// requests are cancelled and their results are dropped by generation.
func (m *Model) lookup() tea.Cmd {
	m.selGen++
	if m.lookupCancel != nil {
		m.lookupCancel()
		m.lookupCancel = nil
	}
	m.info = ""
	m.preview = nil

	e, ok := m.selected()
	if !ok || m.describer == nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.lookupCancel = cancel

	cmds := []tea.Cmd{describeCmd(ctx, m.describer, m.selGen, m.currentDir, e.Name, m.target)}
	if !e.IsDir && m.images != nil && m.imageExts.Has(e.Name) {
		cmds = append(cmds, previewCmd(ctx, m.images, m.selGen, e.Path, m.previewWidth))
	}
	return tea.Batch(cmds...)
}

// rewatch points the watcher at the current directory and the directory of
// the target. The target itself is replaced on every rewrite, so its parent
// is watched instead.
func (m *Model) rewatch() {
	if m.watcher == nil {
		return
	}
	targetDir := ""
	if m.target != "" {
		targetDir = filepath.Dir(m.target)
	}
	if err := m.watcher.Watch(m.currentDir, targetDir); err != nil {
		m.logger.WithError(err).Debug("watch failed")
	}
}

// setMessage shows a transient message and schedules its expiry.
func (m *Model) setMessage(text string, kind common.MessageKind) tea.Cmd {
	m.setPersistentMessage(text, kind)
	return clearMessageCmd(m.messageTTL, m.messageID)
}

// setPersistentMessage shows a message that stays until replaced or cleared.
func (m *Model) setPersistentMessage(text string, kind common.MessageKind) {
	m.messageID++
	m.message = common.Message{Text: text, Kind: kind}
}

func (m *Model) clearMessage() {
	m.messageID++
	m.message = common.Message{}
}

func (m *Model) shutdown() {
	if c, ok := m.mode.(convertingMode); ok {
		c.cancel()
	}
	if m.lookupCancel != nil {
		m.lookupCancel()
	}
}

// Mode returns the kind of the active mode.
func (m *Model) Mode() common.Mode { return m.mode.kind() }

func (m *Model) Width() int  { return m.width }
func (m *Model) Height() int { return m.height }

func (m *Model) CurrentDir() string { return m.currentDir }

// Entries returns the listing after the hidden and text filters.
func (m *Model) Entries() []files.Entry { return m.entries }

func (m *Model) Category(e files.Entry) files.IconCategory {
	return files.ClassifyWith(e.Name, e.IsDir, m.imageExts, m.videoExts)
}

func (m *Model) Cursor() int       { return m.cursor }
func (m *Model) ScrollOffset() int { return m.scroll }

// ListHeight is the number of list rows that fit the window.
func (m *Model) ListHeight() int {
	return max(1, m.height-m.listPadding)
}

func (m *Model) FilterApplied() string { return m.filterApplied }

func (m *Model) FilterInputView() string {
	if f, ok := m.mode.(*filterMode); ok {
		return f.input.View()
	}
	return ""
}

// FilterText is the text typed so far in FilterEntry mode.
func (m *Model) FilterText() string {
	if f, ok := m.mode.(*filterMode); ok {
		return f.input.Value()
	}
	return ""
}

func (m *Model) Target() string { return m.target }

func (m *Model) Info() string          { return m.info }
func (m *Model) PreviewRows() []string { return m.preview }

func (m *Model) Subject() string {
	switch md := m.mode.(type) {
	case deleteConfirmMode:
		return md.entry.Name
	case videoPromptMode:
		return md.entry.Name
	case convertingMode:
		return filepath.Base(md.plan.Input)
	}
	return ""
}

func (m *Model) ConvertCommand() string {
	if c, ok := m.mode.(convertingMode); ok {
		return c.command
	}
	return ""
}

func (m *Model) SpinnerView() string { return m.status.View() }

func (m *Model) Message() common.Message { return m.message }

func (m *Model) HelpView() string { return m.help.View(keys) }

// Depth returns the number of directories on the navigation stack.
func (m *Model) Depth() int { return m.stack.Len() }

// ShowHidden reports whether dotfiles are listed.
func (m *Model) ShowHidden() bool { return m.showHidden }
