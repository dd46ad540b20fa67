package tui

import (
	"context"
	"io"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-donut/internal/core"
	"github.com/vovakirdan/tui-donut/internal/render"
	"github.com/vovakirdan/tui-donut/internal/storage"
)

// chanKeys delivers keys sent on a channel.
type chanKeys struct {
	keys chan string
}

func newChanKeys() *chanKeys {
	return &chanKeys{keys: make(chan string)}
}

func (c *chanKeys) PollKey(timeout time.Duration) (string, bool, error) {
	select {
	case k := <-c.keys:
		return k, true, nil
	case <-time.After(timeout):
		return "", false, nil
	}
}

// countingPresenter counts frames and remembers the last one. frames is
// read by the test goroutine while Run is still going.
type countingPresenter struct {
	begun, ended bool
	frames       atomic.Int64
	last         core.Frame
}

func (p *countingPresenter) Begin() error { p.begun = true; return nil }
func (p *countingPresenter) End() error   { p.ended = true; return nil }

func (p *countingPresenter) Present(frame core.Frame, _ string) error {
	p.frames.Add(1)
	p.last = frame
	return nil
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{
		FrameDuration: time.Millisecond,
		PollTimeout:   5 * time.Millisecond,
		ShutdownGrace: 100 * time.Millisecond,
		ShowStatus:    true,
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

type runOutcome struct {
	res Result
	err error
}

func startRun(ctx context.Context, keys *chanKeys, p render.Presenter) <-chan runOutcome {
	out := make(chan runOutcome, 1)
	go func() {
		res, err := Run(ctx, testConfig(), keys, p, quietLogger())
		out <- runOutcome{res, err}
	}()
	return out
}

func waitFrames(t *testing.T, p *countingPresenter) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for p.frames.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no frame was presented")
		}
		time.Sleep(time.Millisecond)
	}
}

func waitRun(t *testing.T, out <-chan runOutcome) runOutcome {
	t.Helper()
	select {
	case o := <-out:
		return o
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return runOutcome{}
	}
}

func TestRunQuitKey(t *testing.T) {
	keys := newChanKeys()
	p := &countingPresenter{}
	out := startRun(context.Background(), keys, p)
	waitFrames(t, p)

	keys.keys <- " "
	keys.keys <- " "
	keys.keys <- "r"
	keys.keys <- "q"

	o := waitRun(t, out)
	if o.err != nil {
		t.Fatalf("Run() error = %v", o.err)
	}
	if !p.begun || !p.ended {
		t.Error("presenter should be begun and ended")
	}
	if o.res.Render.Presented == 0 || int64(o.res.Render.Presented) != p.frames.Load() {
		t.Errorf("Presented = %d, presenter saw %d", o.res.Render.Presented, p.frames.Load())
	}
	if o.res.PauseToggles != 2 {
		t.Errorf("PauseToggles = %d, expected 2", o.res.PauseToggles)
	}
	if o.res.ResetRequests != 1 {
		t.Errorf("ResetRequests = %d, expected 1", o.res.ResetRequests)
	}
	if p.last.Blank() {
		t.Error("the last frame should show the torus")
	}
}

func TestRunCtrlCQuits(t *testing.T) {
	keys := newChanKeys()
	out := startRun(context.Background(), keys, &countingPresenter{})

	keys.keys <- "ctrl+c"

	if o := waitRun(t, out); o.err != nil {
		t.Fatalf("Run() error = %v", o.err)
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	keys := newChanKeys()
	p := &countingPresenter{}
	out := startRun(ctx, keys, p)

	waitFrames(t, p)
	cancel()

	o := waitRun(t, out)
	if o.err != nil {
		t.Fatalf("Run() error = %v", o.err)
	}
	if !p.ended {
		t.Error("presenter should be ended after cancellation")
	}
}

func TestResultSession(t *testing.T) {
	res := Result{
		Render: render.Stats{
			Presented: 300,
			Computed:  250,
			Resets:    2,
			Duration:  10 * time.Second,
		},
		PauseToggles:  4,
		ResetRequests: 3,
	}

	s := res.Session("ssh:alice")
	if s.Origin != "ssh:alice" {
		t.Errorf("Origin = %q", s.Origin)
	}
	if s.Presented != 300 || s.Computed != 250 || s.Resets != 2 || s.PauseToggles != 4 {
		t.Errorf("unexpected counters: %+v", s)
	}
	if s.Duration != 10*time.Second {
		t.Errorf("Duration = %v", s.Duration)
	}
	if s.AvgFPS != 30 {
		t.Errorf("AvgFPS = %v, expected 30", s.AvgFPS)
	}
}

func TestRecordSession(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	logger := quietLogger()

	// Nothing presented, nothing recorded
	RecordSession(store, storage.OriginLocal, Result{}, logger)

	res := Result{Render: render.Stats{Presented: 60, Computed: 60, Duration: 2 * time.Second}}
	RecordSession(store, storage.OriginLocal, res, logger)

	sessions, err := store.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, expected 1", len(sessions))
	}
	if sessions[0].Origin != storage.OriginLocal || sessions[0].Presented != 60 {
		t.Errorf("unexpected session: %+v", sessions[0])
	}

	// A nil store is a no-op
	RecordSession(nil, storage.OriginLocal, res, logger)
}
