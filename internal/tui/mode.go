package tui

import (
	"context"

	"mediabrowse/internal/convert"
	"mediabrowse/internal/files"
	"mediabrowse/internal/tui/common"

	"github.com/charmbracelet/bubbles/textinput"
)

// mode is the browser's single active mode. Each variant carries only the
// state that exists while it is active.
type mode interface {
	kind() common.Mode
}

type normalMode struct{}

type filterMode struct {
	input textinput.Model
}

type deleteConfirmMode struct {
	entry files.Entry
}

// videoPromptMode holds a pending video conversion until the audio choice is
// made.
type videoPromptMode struct {
	entry files.Entry
}

type convertingMode struct {
	plan    convert.Plan
	gen     int
	cancel  context.CancelFunc
	command string
}

func (normalMode) kind() common.Mode        { return common.Normal }
func (*filterMode) kind() common.Mode       { return common.FilterEntry }
func (deleteConfirmMode) kind() common.Mode { return common.DeleteConfirm }
func (videoPromptMode) kind() common.Mode   { return common.VideoSoundPrompt }
func (convertingMode) kind() common.Mode    { return common.Converting }

func newFilterInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "name or glob"
	ti.CharLimit = 256
	ti.Focus()
	return ti
}
