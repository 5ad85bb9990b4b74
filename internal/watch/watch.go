// Package watch feeds documents dropped into a directory to a handler, one at
// a time.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Handler processes one settled file.
type Handler func(ctx context.Context, path string) error

// Watcher monitors a single directory. Files are handed over once they have
// stopped changing for the settle interval.
type Watcher struct {
	dir     string
	handler Handler
	logger  *zap.Logger
	fsw     *fsnotify.Watcher
	exts    map[string]bool
	settle  time.Duration
	pending map[string]time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger for detected and ignored files.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithExtensions replaces the watched extensions (".pptx", ".pdf", ...).
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.exts = make(map[string]bool, len(exts))
		for _, e := range exts {
			w.exts[strings.ToLower(e)] = true
		}
	}
}

// WithSettle sets how long a file must stay unchanged before it is handled.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) { w.settle = d }
}

// New starts watching dir.
func New(dir string, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watch: nil handler")
	}
	w := &Watcher{
		dir:     dir,
		handler: handler,
		logger:  zap.NewNop(),
		settle:  500 * time.Millisecond,
		pending: make(map[string]time.Time),
	}
	WithExtensions(".pptx", ".ppt", ".pdf")(w)
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}
	w.fsw = fsw
	return w, nil
}

// Run blocks until ctx is done, handling settled files sequentially.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watching directory", zap.String("dir", w.dir), zap.Duration("settle", w.settle))

	tick := w.settle / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped", zap.String("dir", w.dir))
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !w.watched(event.Name) {
				w.logger.Debug("ignoring file", zap.String("path", event.Name))
				continue
			}
			w.pending[event.Name] = time.Now()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", zap.Error(err))

		case now := <-ticker.C:
			for _, path := range w.ready(now) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Info("processing document", zap.String("path", path))
				if err := w.handler(ctx, path); err != nil {
					w.logger.Error("failed to process document", zap.String("path", path), zap.Error(err))
				}
			}
		}
	}
}

// ready removes and returns, in name order, the pending files that settled.
func (w *Watcher) ready(now time.Time) []string {
	var out []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			out = append(out, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(out)
	return out
}

// watched skips office lock files and hidden files.
func (w *Watcher) watched(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	return w.exts[strings.ToLower(filepath.Ext(base))]
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
