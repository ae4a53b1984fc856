package files

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestFilter(t *testing.T) {
	entries := []Entry{
		{Name: "Holiday.PNG"},
		{Name: "notes.md"},
		{Name: "holiday-video.mp4"},
		{Name: "index.html"},
	}

	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"Holiday.PNG", "notes.md", "holiday-video.mp4", "index.html"}},
		{"holiday", []string{"Holiday.PNG", "holiday-video.mp4"}},
		{"X", []string{"index.html"}},
		{"*.png", []string{"Holiday.PNG"}},
		{"*.{md,html}", []string{"notes.md", "index.html"}},
		{"?otes*", []string{"notes.md"}},
		{"nothing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Filter(entries, tt.filter)))
		})
	}
}

func TestMatcherInvalidGlobFallsBack(t *testing.T) {
	match := NewMatcher("[abc")
	assert.True(t, match("x[abc].txt"))
	assert.False(t, match("abc.txt"))
}
