package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	serr "mediabrowse/internal/errors"
	"mediabrowse/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateMediaTree(t, dir)

	cfg, err := loadConfig(&options{
		cfgFile: filepath.Join(dir, "missing.yaml"),
		dir:     dir,
		target:  filepath.Join(dir, "index.html"),
		theme:   "dark",
		debug:   true,
		noWatch: true,
	})
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Browser.StartDir)
	assert.Equal(t, filepath.Join(dir, "index.html"), cfg.Browser.TargetFile)
	assert.Equal(t, "dark", cfg.Theme.Name)
	assert.True(t, cfg.Log.Debug)
	assert.False(t, cfg.Browser.Watch)
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := loadConfig(&options{cfgFile: filepath.Join(dir, "c.yaml"), target: "photo.png"})
	require.Error(t, err)
	assert.True(t, serr.IsInvalidConfig(err))

	_, err = loadConfig(&options{cfgFile: filepath.Join(dir, "c.yaml"), dir: filepath.Join(dir, "nope")})
	require.Error(t, err)
	assert.True(t, serr.IsInvalidConfig(err))
	assert.Contains(t, err.Error(), "browser.start_dir")
}

func TestThemesCommand(t *testing.T) {
	out, err := run(t, "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "dark")
}

func TestRefsCommand(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateMediaTree(t, dir)
	cfgFile := filepath.Join(dir, "missing.yaml")

	out, err := run(t, "refs", "--config", cfgFile, "--target", filepath.Join(dir, "index.html"), filepath.Join(dir, "photo.png"))
	require.NoError(t, err)
	assert.Equal(t, "1", strings.TrimSpace(out))

	_, err = run(t, "refs", "--config", cfgFile, filepath.Join(dir, "photo.png"))
	assert.Error(t, err)
}

func TestConvertRejectsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateMediaTree(t, dir)

	_, err := run(t, "convert", "--config", filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "notes.txt"))
	assert.Error(t, err)
}
