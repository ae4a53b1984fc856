package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediabrowse/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("info message")
	assert.Contains(t, buf.String(), "level=info")
	assert.Contains(t, buf.String(), "info message")
	buf.Reset()

	l.Warn("warn message")
	assert.Contains(t, buf.String(), "level=warning")
	buf.Reset()

	l.Error("error message")
	assert.Contains(t, buf.String(), "level=error")
	buf.Reset()

	l.Infof("formatted %s", "message")
	assert.Contains(t, buf.String(), "formatted message")
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Debug("debug message")
	assert.Empty(t, buf.String())

	l = NewLogger(WithOutput(&buf), WithDebug(true))
	l.Debugf("formatted %s", "debug")
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "formatted debug")
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.With(F("key1", "value1"), F("key2", 123)).Info("structured message")
	output := buf.String()
	assert.Contains(t, output, "structured message")
	assert.Contains(t, output, "key1=value1")
	assert.Contains(t, output, "key2=123")
	buf.Reset()

	l.With(F("key1", "value1")).With(F("key2", 123)).Info("chained fields")
	output = buf.String()
	assert.Contains(t, output, "key1=value1")
	assert.Contains(t, output, "key2=123")
}

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithJSON())

	l.With(F("key1", "value1"), F("key2", 123)).Info("structured json")

	var logEntry map[string]interface{}
	err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "structured json", logEntry["message"])
	assert.Contains(t, logEntry, "timestamp")
	assert.Equal(t, "value1", logEntry["key1"])
	assert.Equal(t, float64(123), logEntry["key2"])
}

func TestErrorLogging(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := Default()
	Configure(WithOutput(&buf))
	defer Configure(WithOutput(originalLogger.base.Out))

	Default().With(F("error", fmt.Errorf("standard error").Error())).Error("error occurred")
	assert.Contains(t, buf.String(), "standard error")
	buf.Reset()

	fileErr := errors.NewFileError("file error", "/path/to/file", errors.FileNotFound, nil)
	Default().WithError(fileErr).Error("file error occurred")
	output := buf.String()
	assert.Contains(t, output, "file error occurred")
	assert.Contains(t, output, "path=/path/to/file")
	assert.Contains(t, output, fmt.Sprintf("error_kind=%d", errors.FileNotFound))
	buf.Reset()

	procErr := errors.NewProcessError("transcode failed", "ffmpeg", 2, nil)
	Default().With(F("input", "a.mov")).WithError(procErr).Error("conversion failed")
	output = buf.String()
	assert.Contains(t, output, "command=ffmpeg")
	assert.Contains(t, output, "exit_code=2")
	assert.Contains(t, output, "input=a.mov")
	buf.Reset()

	rewriteErr := errors.NewRewriteError("cannot read target", "/t.md", fileErr)
	Default().WithError(rewriteErr).Error("rewrite failed")
	output = buf.String()
	assert.Contains(t, output, "target=/t.md")
	assert.Contains(t, output, fmt.Sprintf("error_kind=%d", errors.RewriteFailed))
	buf.Reset()

	Default().WithError(nil).Error("nil error test")
	assert.Contains(t, buf.String(), "error=\"<nil>\"")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	l := NewLogger(WithFile(path))
	l.Info("first line")
	require.NoError(t, l.Close())

	l = NewLogger(WithFile(path))
	l.Info("second line")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first line")
	assert.Contains(t, lines[1], "second line")
	assert.Contains(t, lines[0], "time=")
}

func TestUnwritableFileIsSwallowed(t *testing.T) {
	l := NewLogger(WithFile(filepath.Join(t.TempDir(), "missing", "dir", "debug.log")))
	assert.NotPanics(t, func() {
		l.Info("goes nowhere")
		l.With(F("k", "v")).Error("still nowhere")
	})
	assert.NoError(t, l.Close())
}
