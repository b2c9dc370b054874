package artifact

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Anurag9000/Gram-Connect/internal/domain/compat"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
	"github.com/Anurag9000/Gram-Connect/pkg/metrics"
)

const defaultDebounce = 250 * time.Millisecond

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets how long to wait after the last change before reloading.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithOnReload registers a hook called after every reload attempt.
func WithOnReload(fn func(*compat.Model, error)) WatchOption {
	return func(w *Watcher) { w.onReload = fn }
}

// Watcher reloads the artifact when its file changes. A file that fails to
// load leaves the current model in service.
type Watcher struct {
	path     string
	holder   *Holder
	debounce time.Duration
	onReload func(*compat.Model, error)
	fsw      *fsnotify.Watcher
	log      logger.Logger

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// Watch starts watching path. The parent directory is watched so that
// rename-into-place installs are seen.
func Watch(ctx context.Context, path string, h *Holder, opts ...WatchOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		holder:   h,
		debounce: defaultDebounce,
		fsw:      fsw,
		log:      logger.Named("artifact"),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.loop(ctx)
	w.log.Info(ctx, "watching model artifact", logger.String("path", abs), logger.Duration("debounce", w.debounce))
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.schedule(ctx)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn(ctx, "watch error", logger.Error(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.reload(ctx) })
}

func (w *Watcher) reload(ctx context.Context) {
	m, err := Load(w.path)
	if err != nil {
		metrics.RecordArtifactReloadError()
		w.log.Warn(ctx, "artifact reload failed, keeping current model", logger.String("path", w.path), logger.Error(err))
	} else {
		old := w.holder.Swap(m)
		fields := []logger.Field{logger.String("version", m.Version())}
		if old != nil {
			fields = append(fields, logger.String("previous", old.Version()))
		}
		w.log.Info(ctx, "artifact reloaded", fields...)
	}
	if w.onReload != nil {
		w.onReload(m, err)
	}
}
