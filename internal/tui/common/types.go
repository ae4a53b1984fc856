package common

import "mediabrowse/internal/files"

// Mode is the kind of the browser's active mode.
type Mode int

const (
	// Normal is the default mode for navigation
	Normal Mode = iota
	// FilterEntry is the mode for typing a filter
	FilterEntry
	// DeleteConfirm asks before deleting the selected entry
	DeleteConfirm
	// VideoSoundPrompt asks whether a video keeps its audio track
	VideoSoundPrompt
	// Converting runs the transcoder
	Converting
)

func (m Mode) String() string {
	switch m {
	case FilterEntry:
		return "filter"
	case DeleteConfirm:
		return "delete-confirm"
	case VideoSoundPrompt:
		return "video-sound-prompt"
	case Converting:
		return "converting"
	}
	return "normal"
}

// MessageKind styles the status line.
type MessageKind int

const (
	Info MessageKind = iota
	Success
	Failure
)

// Message is the status line shown under the browser.
type Message struct {
	Text string
	Kind MessageKind
}

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Mode() Mode
	Width() int
	Height() int

	CurrentDir() string
	Entries() []files.Entry
	Category(e files.Entry) files.IconCategory
	Cursor() int
	ScrollOffset() int
	ListHeight() int

	FilterApplied() string
	FilterInputView() string
	Target() string

	Info() string
	PreviewRows() []string

	// Subject is the entry a modal is about: the file being deleted, asked
	// about or converted.
	Subject() string
	ConvertCommand() string
	SpinnerView() string

	Message() Message
	HelpView() string
}
