// Package watcher triggers a reload when post files change on disk.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/carltonupp/upperdine/pkg/logger"
)

const defaultDebounce = 250 * time.Millisecond

// ErrWatch wraps failures to set up the underlying file watch.
var ErrWatch = errors.New("watch posts directory failed")

// ReloadFunc is called once per burst of changes.
type ReloadFunc func(ctx context.Context) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the directory must be quiet before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithExtension limits events to files with the given extension.
func WithExtension(ext string) Option {
	return func(w *Watcher) {
		w.ext = ext
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// Watcher watches a single directory.
type Watcher struct {
	dir      string
	ext      string
	debounce time.Duration
	onChange ReloadFunc
	log      logger.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// New creates a Watcher for dir. It does nothing until Start is called.
func New(dir string, onChange ReloadFunc, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		ext:      ".md",
		debounce: defaultDebounce,
		onChange: onChange,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. Calling Start on a running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWatch, err)
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("%w: %s: %w", ErrWatch, w.dir, err)
	}

	w.fsw = fsw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true

	go w.run(ctx, fsw, w.stopCh, w.doneCh)
	w.log.Info(ctx, "watching posts directory", logger.String("dir", w.dir), logger.Duration("debounce", w.debounce))
	return nil
}

// Stop ends the watch and waits for the event loop to exit. Safe to call
// more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	fsw, stopCh, doneCh := w.fsw, w.stopCh, w.doneCh
	w.fsw = nil
	w.mu.Unlock()

	close(stopCh)
	<-doneCh
	if err := fsw.Close(); err != nil {
		w.log.Error(context.Background(), "close file watcher", logger.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug(ctx, "post file changed", logger.String("file", ev.Name), logger.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Error(ctx, "file watcher error", logger.Error(err))

		case <-fire:
			fire = nil
			if err := w.onChange(ctx); err != nil {
				w.log.Error(ctx, "reload after change failed", logger.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return w.ext == "" || filepath.Ext(ev.Name) == w.ext
}
