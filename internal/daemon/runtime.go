package daemon

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/mlipski/usagewidget/internal/core"
)

// UsageSource produces one WidgetData per refresh; *core.Service implements it.
type UsageSource interface {
	GetUsage(ctx context.Context) core.WidgetData
}

// Recorder persists refreshes; *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, data core.WidgetData) error
}

type Options struct {
	Interval  time.Duration
	WatchPath string // activity log path; empty disables the watch
	Recorder  Recorder
	OnUpdate  func(core.WidgetData)
	Logger    zerolog.Logger
}

// Runtime drives periodic refreshes: a ticker at the configured interval plus
// a filesystem watch on the activity log, so a rewrite by Claude Code shows
// up without waiting out the interval.
type Runtime struct {
	source    UsageSource
	recorder  Recorder
	interval  time.Duration
	watchPath string
	onUpdate  func(core.WidgetData)
	log       zerolog.Logger
}

func NewRuntime(source UsageSource, opts Options) *Runtime {
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Runtime{
		source:    source,
		recorder:  opts.Recorder,
		interval:  interval,
		watchPath: opts.WatchPath,
		onUpdate:  opts.OnUpdate,
		log:       opts.Logger,
	}
}

// Run refreshes once immediately, then on every tick and activity log change,
// until ctx is cancelled.
func (r *Runtime) Run(ctx context.Context) error {
	changes := make(chan struct{}, 1)

	if r.watchPath != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			r.log.Warn().Err(err).Msg("activity log watch unavailable")
		} else {
			defer watcher.Close()
			// Watch the directory: the log is replaced wholesale, and a
			// watch on the file itself breaks at the first rename.
			dir := filepath.Dir(r.watchPath)
			if err := watcher.Add(dir); err != nil {
				r.log.Warn().Err(err).Str("dir", dir).Msg("watching activity log dir")
			} else {
				go r.forwardChanges(ctx, watcher, changes)
			}
		}
	}

	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Debug().Msg("refresh loop stopped")
			return nil
		case <-ticker.C:
			r.refresh(ctx)
		case <-changes:
			r.refresh(ctx)
		}
	}
}

func (r *Runtime) forwardChanges(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- struct{}) {
	base := filepath.Base(r.watchPath)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			// Coalesce bursts; one pending refresh is enough.
			select {
			case changes <- struct{}{}:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.log.Warn().Err(err).Msg("activity log watcher")
		}
	}
}

func (r *Runtime) refresh(ctx context.Context) {
	data := r.source.GetUsage(ctx)

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, data); err != nil {
			r.log.Warn().Err(err).Msg("recording snapshot")
		}
	}
	if r.onUpdate != nil {
		r.onUpdate(data)
	}
}
