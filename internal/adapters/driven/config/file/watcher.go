package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

const defaultDebounce = 400 * time.Millisecond

// PromptWatcher reloads a PromptStore when template files in its
// directory change. Bursts of events are collapsed into one reload.
type PromptWatcher struct {
	dir      string
	store    driven.PromptStore
	onReload func()
	debounce time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	done     chan struct{}
	stopOnce sync.Once
}

// WatcherOption configures a PromptWatcher.
type WatcherOption func(*PromptWatcher)

// WithLogger sets the logger for watcher events.
func WithLogger(l *zap.Logger) WatcherOption {
	return func(w *PromptWatcher) { w.logger = l }
}

// WithDebounce overrides the reload debounce window.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *PromptWatcher) { w.debounce = d }
}

// WithOnReload registers a callback run after each reload.
func WithOnReload(fn func()) WatcherOption {
	return func(w *PromptWatcher) { w.onReload = fn }
}

// NewPromptWatcher creates a watcher for dir that reloads store.
func NewPromptWatcher(dir string, store driven.PromptStore, opts ...WatcherOption) *PromptWatcher {
	w := &PromptWatcher{
		dir:      dir,
		store:    store,
		debounce: defaultDebounce,
		logger:   zap.NewNop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. It returns once the watch is registered; events
// are handled until ctx is cancelled or Stop is called.
func (w *PromptWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0700); err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(w.dir); err != nil {
		_ = fw.Close()
		return err
	}
	w.watcher = fw
	w.logger.Debug("prompt watcher started", zap.String("dir", w.dir))

	go w.run(ctx, fw)
	return nil
}

func (w *PromptWatcher) run(ctx context.Context, fw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Debug("prompt watcher error", zap.Error(err))
			}
		}
	}
}

func (w *PromptWatcher) handleEvent(ev fsnotify.Event) {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".txt") {
		return
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("prompt file changed", zap.String("op", ev.Op.String()), zap.String("path", ev.Name))
	w.scheduleReload()
}

func (w *PromptWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *PromptWatcher) reload() {
	w.mu.Lock()
	w.timer = nil
	w.mu.Unlock()

	w.store.Reload()
	w.logger.Info("prompts reloaded", zap.String("dir", w.dir))
	if w.onReload != nil {
		w.onReload()
	}
}

// Stop stops the watcher and releases resources.
func (w *PromptWatcher) Stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.watcher != nil {
		_ = w.watcher.Close()
		w.watcher = nil
	}
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
