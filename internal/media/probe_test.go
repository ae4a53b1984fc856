package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	serr "mediabrowse/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	d, err := parseDuration([]byte(`{"format": {"filename": "a.mp4", "duration": "63.480000"}}`))
	require.NoError(t, err)
	assert.InDelta(t, 63.48, d, 1e-9)

	d, err = parseDuration([]byte(`{"format": {}}`))
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	_, err = parseDuration([]byte(`not json`))
	assert.Error(t, err)
}

func TestDurationProbeFailure(t *testing.T) {
	probe := NewProbe("", filepath.Join(t.TempDir(), "no-ffprobe"), nil)
	assert.Equal(t, 0.0, probe.Duration(context.Background(), "/any/clip.mp4"))

	probe = NewProbe("", "", nil)
	assert.Equal(t, 0.0, probe.Duration(context.Background(), "/any/clip.mp4"))
}

func TestDecodeFallbackFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vector.svg")
	require.NoError(t, os.WriteFile(path, []byte("<svg/>"), 0o644))

	probe := NewProbe(filepath.Join(dir, "no-ffmpeg"), filepath.Join(dir, "no-ffprobe"), nil)

	_, err := probe.Decode(context.Background(), path)
	require.Error(t, err)
	assert.True(t, serr.IsDecodeError(err))

	_, _, err = probe.Dimensions(context.Background(), path)
	require.Error(t, err)
	assert.True(t, serr.IsDecodeError(err))

	_, err = probe.Decode(context.Background(), filepath.Join(dir, "missing.png"))
	assert.True(t, serr.IsDecodeError(err))
}
