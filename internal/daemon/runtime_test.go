package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mlipski/usagewidget/internal/core"
)

type countingSource struct {
	mu    sync.Mutex
	calls int
}

func (s *countingSource) GetUsage(context.Context) core.WidgetData {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return core.WidgetData{LastUpdated: time.Now().UTC().Format(time.RFC3339)}
}

func (s *countingSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type memRecorder struct {
	mu   sync.Mutex
	data []core.WidgetData
}

func (r *memRecorder) Record(_ context.Context, d core.WidgetData) error {
	r.mu.Lock()
	r.data = append(r.data, d)
	r.mu.Unlock()
	return nil
}

func (r *memRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestRuntime_InitialRefreshAndTicker(t *testing.T) {
	source := &countingSource{}
	recorder := &memRecorder{}

	var updates sync.WaitGroup
	updates.Add(1)
	var once sync.Once

	rt := NewRuntime(source, Options{
		Interval: 20 * time.Millisecond,
		Recorder: recorder,
		OnUpdate: func(core.WidgetData) { once.Do(updates.Done) },
		Logger:   zerolog.Nop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.Run(ctx) }()

	updates.Wait() // initial refresh happened
	waitFor(t, 2*time.Second, func() bool { return source.count() >= 2 })

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v, want nil on cancellation", err)
	}

	if recorder.count() < 2 {
		t.Errorf("recorded %d snapshots, want at least 2", recorder.count())
	}
}

func TestRuntime_RefreshOnActivityLogChange(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "stats-cache.json")

	source := &countingSource{}
	rt := NewRuntime(source, Options{
		Interval:  time.Hour, // only the watch can trigger extra refreshes
		WatchPath: logPath,
		Logger:    zerolog.Nop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rt.Run(ctx)

	waitFor(t, 2*time.Second, func() bool { return source.count() >= 1 })

	// Claude Code rewrites the stats file wholesale; simulate via tmp+rename.
	tmp := filepath.Join(dir, "stats-cache.json.tmp")
	if err := os.WriteFile(tmp, []byte(`{"dailyActivity":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, logPath); err != nil {
		t.Fatal(err)
	}

	waitFor(t, 2*time.Second, func() bool { return source.count() >= 2 })
}

func TestNewRuntime_NormalizesInterval(t *testing.T) {
	rt := NewRuntime(&countingSource{}, Options{Interval: -1})
	if rt.interval != time.Minute {
		t.Errorf("interval = %v, want 1m default", rt.interval)
	}
}
