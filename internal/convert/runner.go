package convert

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"

	serr "mediabrowse/internal/errors"
	"mediabrowse/internal/log"
)

// Runner runs an external program to completion and reports its exit code.
// A spawn failure is an error; a non-zero exit is not.
type Runner interface {
	Run(ctx context.Context, executable string, args []string) (int, error)
}

// ExecRunner runs programs with os/exec and streams their stdout and stderr
// into the logger line by line. Cancelling ctx kills the process.
type ExecRunner struct {
	logger *log.Logger
}

// NewExecRunner returns an ExecRunner logging to logger.
func NewExecRunner(logger *log.Logger) *ExecRunner {
	if logger == nil {
		logger = log.Default()
	}
	return &ExecRunner{logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, executable string, args []string) (int, error) {
	logger := r.logger.With(log.F("command", executable))
	logger.With(log.F("args", args)).Debug("spawn")

	cmd := exec.CommandContext(ctx, executable, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, serr.NewProcessError("failed to attach stdout", executable, -1, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, serr.NewProcessError("failed to attach stderr", executable, -1, err)
	}

	if err := cmd.Start(); err != nil {
		logger.WithError(err).Debug("spawn failed")
		return -1, serr.NewProcessError("failed to start", executable, -1, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go r.stream(&wg, logger.With(log.F("stream", "stdout")), stdout)
	go r.stream(&wg, logger.With(log.F("stream", "stderr")), stderr)
	wg.Wait()

	err = cmd.Wait()
	code := cmd.ProcessState.ExitCode()
	logger.With(log.F("exit_code", code)).Debug("close")

	if ctx.Err() != nil {
		return code, serr.NewProcessError("cancelled", executable, -1, ctx.Err())
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return code, serr.NewProcessError("failed to wait", executable, -1, err)
	}
	return code, nil
}

func (r *ExecRunner) stream(wg *sync.WaitGroup, logger *log.Entry, rd io.Reader) {
	defer wg.Done()
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		logger.Debug(sc.Text())
	}
	// Keep the pipe drained past an oversized line
	_, _ = io.Copy(io.Discard, rd)
}
