package convert

import (
	"context"
	"sync"
	"testing"
	"time"

	serr "mediabrowse/internal/errors"
	"mediabrowse/internal/files/filestest"
	"mediabrowse/internal/rewrite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanImageConversion(t *testing.T) {
	p := PlanImageConversion("/media/photo.PNG")
	assert.Equal(t, Image, p.Kind)
	assert.Equal(t, "/media/photo.webp", p.Output)
	assert.Equal(t, ".webp", p.NewExt)
	assert.Equal(t, []string{"-y", "-i", "/media/photo.PNG", "/media/photo.webp"}, p.Args)
}

func TestPlanVideoConversion(t *testing.T) {
	p := PlanVideoConversion("/v/clip.mov", true)
	assert.Equal(t, []string{
		"-y", "-i", "/v/clip.mov",
		"-c:v", "libx264", "-preset", "veryslow", "-crf", "20",
		"-c:a", "aac", "-b:a", "128k",
		"/v/clip.mp4",
	}, p.Args)

	p = PlanVideoConversion("/v/clip.mov", false)
	assert.Equal(t, []string{
		"-y", "-i", "/v/clip.mov",
		"-c:v", "libx264", "-preset", "veryslow", "-crf", "20",
		"-an",
		"/v/clip.mp4",
	}, p.Args)
	assert.Equal(t, Video, p.Kind)
	assert.Equal(t, ".mp4", p.NewExt)
}

func TestCommandLine(t *testing.T) {
	p := PlanImageConversion("/my pics/a.png")
	assert.Equal(t, `ffmpeg -y -i "/my pics/a.png" "/my pics/a.webp"`, p.CommandLine("ffmpeg"))
}

type fakeRunner struct {
	mu    sync.Mutex
	code  int
	err   error
	calls [][]string
	block chan struct{}
	start chan struct{}
	// exited runs after the process would have exited, before Run returns.
	exited func()
}

func (f *fakeRunner) Run(ctx context.Context, executable string, args []string) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{executable}, args...))
	if f.start != nil {
		close(f.start)
		f.start = nil
	}
	block, exited := f.block, f.exited
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if exited != nil {
		exited()
	}
	return f.code, f.err
}

func (f *fakeRunner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func setup(code int, err error) (*Orchestrator, *fakeRunner, *filestest.MemFS) {
	fs := filestest.New().AddFile("/site/index.html", `<img src="photo.png"><video src="clip.mov">`)
	runner := &fakeRunner{code: code, err: err}
	return NewOrchestrator("ffmpeg", runner, rewrite.New(fs, nil), nil), runner, fs
}

func TestRunSuccessRewrites(t *testing.T) {
	o, runner, fs := setup(0, nil)
	assert.Equal(t, Idle, o.State())

	res := o.Run(context.Background(), PlanImageConversion("/media/photo.png"), "/site/index.html")
	require.NoError(t, res.Err)
	require.NoError(t, res.RewriteErr)
	assert.Equal(t, 1, res.Rewritten)
	assert.Equal(t, Succeeded, o.State())
	assert.Equal(t, "Updated 1 reference in index.html", res.Message())
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "ffmpeg", runner.calls[0][0])

	content, _ := fs.Content("/site/index.html")
	assert.Equal(t, `<img src="photo.webp"><video src="clip.mov">`, content)

	res = o.Run(context.Background(), PlanVideoConversion("/media/clip.mov", false), "/site/index.html")
	assert.Equal(t, 1, res.Rewritten)
	content, _ = fs.Content("/site/index.html")
	assert.Equal(t, `<img src="photo.webp"><video src="clip.mp4">`, content)
}

func TestRunWithoutTarget(t *testing.T) {
	o, _, fs := setup(0, nil)
	res := o.Run(context.Background(), PlanImageConversion("/media/photo.png"), "")
	require.NoError(t, res.Err)
	assert.Equal(t, 0, res.Rewritten)
	assert.Equal(t, "", res.Message())
	assert.Equal(t, 0, fs.Writes("/site/index.html"))
}

func TestRunNoReferences(t *testing.T) {
	o, _, _ := setup(0, nil)
	res := o.Run(context.Background(), PlanImageConversion("/media/other.png"), "/site/index.html")
	require.NoError(t, res.Err)
	assert.Equal(t, "No references found in index.html", res.Message())
}

func TestRunFailureSkipsRewrite(t *testing.T) {
	tests := []struct {
		name string
		code int
		err  error
	}{
		{"non-zero exit", 1, nil},
		{"spawn error", -1, serr.NewProcessError("failed to start", "ffmpeg", -1, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _, fs := setup(tt.code, tt.err)
			res := o.Run(context.Background(), PlanImageConversion("/media/photo.png"), "/site/index.html")
			require.Error(t, res.Err)
			assert.True(t, serr.IsProcessError(res.Err))
			assert.Equal(t, Failed, o.State())
			assert.Equal(t, 0, fs.Writes("/site/index.html"))
			assert.Equal(t, "", res.Message())
		})
	}
}

func TestRunRewriteFailureKeepsConversion(t *testing.T) {
	o, _, _ := setup(0, nil)
	res := o.Run(context.Background(), PlanImageConversion("/media/photo.png"), "/site/missing.html")
	require.NoError(t, res.Err)
	require.Error(t, res.RewriteErr)
	assert.True(t, serr.IsRewriteError(res.RewriteErr))
	assert.Equal(t, Succeeded, o.State())
	assert.Contains(t, res.Message(), "Error updating target file: ")
}

func TestRunBusy(t *testing.T) {
	o, runner, _ := setup(0, nil)
	runner.block = make(chan struct{})
	runner.start = make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.Run(context.Background(), PlanImageConversion("/media/photo.png"), "")
	}()
	<-runner.start
	assert.Equal(t, Running, o.State())

	res := o.Run(context.Background(), PlanImageConversion("/media/photo.png"), "")
	assert.ErrorIs(t, res.Err, serr.ErrBusy)

	close(runner.block)
	wg.Wait()
	assert.Equal(t, Succeeded, o.State())
	assert.Equal(t, 1, runner.Calls())
}

func TestResultMessagePlural(t *testing.T) {
	res := Result{Target: "/a/README.md", Rewritten: 3}
	assert.Equal(t, "Updated 3 references in README.md", res.Message())
}

func TestRunCancelledAfterExitSkipsRewrite(t *testing.T) {
	o, runner, fs := setup(0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	// The transcoder exits cleanly just as the user cancels
	runner.exited = cancel

	res := o.Run(ctx, PlanImageConversion("/media/photo.png"), "/site/index.html")
	require.Error(t, res.Err)
	assert.True(t, serr.IsProcessError(res.Err))
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Equal(t, Failed, o.State())
	assert.Equal(t, 0, fs.Writes("/site/index.html"))
}

func TestRunWaitsForCancelledConversion(t *testing.T) {
	o, runner, _ := setup(0, nil)
	runner.block = make(chan struct{})
	runner.start = make(chan struct{})
	started := runner.start

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan Result, 1)
	go func() {
		first <- o.Run(ctx, PlanImageConversion("/media/photo.png"), "")
	}()
	<-started
	cancel()

	second := make(chan Result, 1)
	go func() {
		second <- o.Run(context.Background(), PlanImageConversion("/media/photo.png"), "")
	}()

	select {
	case res := <-second:
		t.Fatalf("second conversion returned before the first exited: %v", res.Err)
	case <-time.After(50 * time.Millisecond):
	}

	close(runner.block)
	assert.Error(t, (<-first).Err)
	res := <-second
	require.NoError(t, res.Err)
	assert.Equal(t, Succeeded, o.State())
	assert.Equal(t, 2, runner.Calls())
}
