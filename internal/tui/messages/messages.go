package messages

import (
	"mediabrowse/internal/convert"
	"mediabrowse/internal/watch"
)

// DescribedMsg carries info panel text for the lookup issued under Gen.
type DescribedMsg struct {
	Gen  int
	Text string
}

// PreviewMsg carries encoded preview rows for the lookup issued under Gen.
type PreviewMsg struct {
	Gen  int
	Rows []string
	Err  error
}

// ConvertedMsg reports the end of the conversion started under Gen.
type ConvertedMsg struct {
	Gen    int
	Result convert.Result
}

// ClearMessageMsg expires the status message with ID.
type ClearMessageMsg struct {
	ID int
}

// FSChangeMsg reports a change under a watched path.
type FSChangeMsg struct {
	Change watch.Change
}

// RefreshMsg asks for the listing to be read again.
type RefreshMsg struct{}

// OpenedMsg reports the result of opening a file with the default
// application.
type OpenedMsg struct {
	Path string
	Err  error
}
