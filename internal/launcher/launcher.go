// Package launcher opens files with the platform's default application.
package launcher

import (
	"os/exec"
	"runtime"

	serr "mediabrowse/internal/errors"
	"mediabrowse/internal/log"
)

// Launcher opens a path without waiting for the application to exit.
type Launcher interface {
	Open(path string) error
}

// System opens files with open, start or xdg-open depending on the OS.
type System struct {
	logger *log.Logger
}

// NewSystem returns the platform launcher.
func NewSystem(logger *log.Logger) *System {
	if logger == nil {
		logger = log.Default()
	}
	return &System{logger: logger}
}

// Command returns the executable and arguments that open path on goos.
func Command(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	default:
		return "xdg-open", []string{path}
	}
}

// Open starts the default application for path. Only a failure to start is
// reported; the process is reaped in the background and its exit status is
// logged.
func (s *System) Open(path string) error {
	name, args := Command(runtime.GOOS, path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return serr.NewProcessError("failed to open", name, -1, err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			s.logger.With(log.F("path", path), log.F("command", name)).Warnf("open failed: %v", err)
		}
	}()
	return nil
}
