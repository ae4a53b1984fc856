package launcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"darwin", "open", []string{"/a b/c.png"}},
		{"windows", "cmd", []string{"/c", "start", "", "/a b/c.png"}},
		{"linux", "xdg-open", []string{"/a b/c.png"}},
		{"freebsd", "xdg-open", []string{"/a b/c.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := Command(tt.goos, "/a b/c.png")
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
