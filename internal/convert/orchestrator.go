package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	serr "mediabrowse/internal/errors"
	"mediabrowse/internal/files"
	"mediabrowse/internal/log"
	"mediabrowse/internal/rewrite"
)

// State is the lifecycle of the orchestrator.
type State int

const (
	Idle State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "idle"
}

// Result is the outcome of one conversion.
type Result struct {
	Plan   Plan
	Target string
	// Err is set when the transcode did not complete successfully. No
	// rewrite is attempted then.
	Err error
	// Rewritten counts the references updated in Target.
	Rewritten int
	// RewriteErr is set when the transcode succeeded but updating Target
	// failed. The converted output is kept.
	RewriteErr error
}

// Message is the text reported to the user about the rewrite step, or "" when
// no target was bound or the conversion failed.
func (r Result) Message() string {
	if r.Err != nil || r.Target == "" {
		return ""
	}
	if r.RewriteErr != nil {
		return "Error updating target file: " + r.RewriteErr.Error()
	}
	name := filepath.Base(r.Target)
	if r.Rewritten == 0 {
		return "No references found in " + name
	}
	suffix := ""
	if r.Rewritten > 1 {
		suffix = "s"
	}
	return fmt.Sprintf("Updated %d reference%s in %s", r.Rewritten, suffix, name)
}

// Orchestrator runs one conversion at a time and rewrites references to the
// converted file once the transcoder exits successfully.
type Orchestrator struct {
	mu    sync.Mutex
	state State
	// stopping is the Done channel of the running conversion's context and
	// done is closed when that conversion returns.
	stopping <-chan struct{}
	done     chan struct{}

	executable string
	runner     Runner
	rewriter   *rewrite.Rewriter
	logger     *log.Logger

	// ImageExts and VideoExts are the extensions replaced in the target for
	// image and video conversions.
	ImageExts files.ExtSet
	VideoExts files.ExtSet
}

// NewOrchestrator returns an idle orchestrator running executable (ffmpeg)
// through runner.
func NewOrchestrator(executable string, runner Runner, rewriter *rewrite.Rewriter, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		executable: executable,
		runner:     runner,
		rewriter:   rewriter,
		logger:     logger,
		ImageExts:  files.ImageExtensions,
		VideoExts:  files.VideoExtensions,
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Executable returns the transcoder path.
func (o *Orchestrator) Executable() string {
	return o.executable
}

// Run executes plan and, when it succeeds and target is not empty, rewrites
// references to the input file in target. A call made while another
// conversion is running fails with errors.ErrBusy without doing anything,
// unless that conversion has been cancelled: then Run waits for it to exit.
// A conversion cancelled through ctx never rewrites the target.
func (o *Orchestrator) Run(ctx context.Context, plan Plan, target string) Result {
	res := Result{Plan: plan, Target: target}

	if err := o.acquire(ctx); err != nil {
		res.Err = err
		return res
	}

	logger := o.logger.With(
		log.F("input", plan.Input),
		log.F("output", plan.Output),
		log.F("kind", plan.Kind.String()),
	)
	logger.Info("conversion started")

	code, err := o.runner.Run(ctx, o.executable, plan.Args)
	switch {
	case err != nil:
		res.Err = err
	case code != 0:
		res.Err = serr.NewProcessError("conversion failed", o.executable, code, nil)
	case ctx.Err() != nil:
		res.Err = serr.NewProcessError("conversion cancelled", o.executable, -1, ctx.Err())
	}
	if res.Err != nil {
		logger.WithError(res.Err).Error("conversion failed")
		o.finish(Failed)
		return res
	}
	logger.Info("conversion finished")

	if target != "" && o.rewriter != nil {
		exts := o.ImageExts
		if plan.Kind == Video {
			exts = o.VideoExts
		}
		res.Rewritten, res.RewriteErr = o.rewriter.Rewrite(plan.Input, plan.NewExt, exts, target)
		if res.RewriteErr != nil {
			logger.WithError(res.RewriteErr).Error("reference rewrite failed")
		}
	}

	o.finish(Succeeded)
	return res
}

// acquire moves the orchestrator to Running. A cancelled conversion that is
// still shutting down is waited for.
func (o *Orchestrator) acquire(ctx context.Context) error {
	o.mu.Lock()
	for o.state == Running {
		stopping, done := o.stopping, o.done
		o.mu.Unlock()

		select {
		case <-stopping:
		default:
			return serr.ErrBusy
		}
		select {
		case <-done:
		case <-ctx.Done():
			return serr.NewProcessError("conversion cancelled", o.executable, -1, ctx.Err())
		}
		o.mu.Lock()
	}
	o.state = Running
	o.stopping = ctx.Done()
	o.done = make(chan struct{})
	o.mu.Unlock()
	return nil
}

func (o *Orchestrator) finish(s State) {
	o.mu.Lock()
	o.state = s
	close(o.done)
	o.mu.Unlock()
}
