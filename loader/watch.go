package loader

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-twcomposer/activity"
	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/logger"
	"github.com/goliatone/go-twcomposer/registry"
)

// DefaultDebounce groups the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// WatchOption customizes a Watcher.
type WatchOption func(*Watcher)

// WithHook receives a reload event after each successful reload.
func WithHook(hook activity.Hook) WatchOption {
	return func(w *Watcher) {
		if w == nil || hook == nil {
			return
		}
		w.hooks = append(w.hooks, hook)
	}
}

// WithLogger sets the watcher logger.
func WithLogger(lgr logger.Logger) WatchOption {
	return func(w *Watcher) {
		if w == nil || lgr == nil {
			return
		}
		w.logger = lgr
	}
}

// WithDebounce sets how long the watcher waits for events to settle.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if w == nil || d <= 0 {
			return
		}
		w.debounce = d
	}
}

// WithErrorHandler receives reload and watch errors.
func WithErrorHandler(fn func(error)) WatchOption {
	return func(w *Watcher) {
		if w == nil || fn == nil {
			return
		}
		w.onError = fn
	}
}

// Watcher reloads a registry whenever its style file changes. A document
// that fails to load is reported and the previous definitions stay active.
type Watcher struct {
	path     string
	reg      *registry.Static
	fs       *fsnotify.Watcher
	hooks    activity.Hooks
	logger   logger.Logger
	debounce time.Duration
	onError  func(error)

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// Watch loads path into reg and keeps it in sync until ctx is done or Close
// is called. The initial load must succeed.
func Watch(ctx context.Context, path string, reg *registry.Static, options ...WatchOption) (*Watcher, error) {
	if reg == nil {
		return nil, ferrors.WrapSentinel(ferrors.ErrRegistryRequired, "", nil)
	}
	if path == "" {
		return nil, ferrors.WrapSentinel(ferrors.ErrPathRequired, "style document path required", nil)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.WrapBadInput(err, ferrors.TextCodePathInvalid, "", map[string]any{ferrors.MetaFile: path})
	}

	w := &Watcher{
		path:     abs,
		reg:      reg,
		logger:   logger.Nop(),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}

	if _, err := Reload(reg, abs); err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapExternal(err, ferrors.TextCodeAdapterFailed, "", map[string]any{
			ferrors.MetaAdapter: "fsnotify",
		})
	}
	// Watching the directory survives editors that replace the file on save.
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, ferrors.WrapExternal(err, ferrors.TextCodeAdapterFailed, "", map[string]any{
			ferrors.MetaAdapter: "fsnotify",
			ferrors.MetaFile:    abs,
		})
	}
	w.fs = fsWatcher

	go w.run(ctx)
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	err := w.shutdown()
	<-w.stopped
	return err
}

// Done is closed once the watcher has stopped, either through Close or
// because its context ended.
func (w *Watcher) Done() <-chan struct{} {
	return w.stopped
}

func (w *Watcher) shutdown() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.stopped)
	defer w.shutdown()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload(ctx)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.fail(err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) reload(ctx context.Context) {
	doc, err := Reload(w.reg, w.path)
	if err != nil {
		w.fail(err)
		return
	}
	w.logger.Info("style document reloaded", "file", w.path, "components", len(doc.Components))
	w.hooks.OnUpdate(ctx, activity.UpdateEvent{
		Action: activity.ActionReload,
		Source: w.path,
	})
}

func (w *Watcher) fail(err error) {
	w.logger.Warn("style document reload failed", "file", w.path, "error", err)
	if w.onError != nil {
		w.onError(err)
	}
}
