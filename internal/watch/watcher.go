// Package watch reports changes to a single file.
//
// The directory holding the file is watched rather than the file itself: the
// game replaces its databases on save, and a watch on the old inode would go
// silent after the first replacement.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arloliu/osudb/internal/hash"
	"github.com/arloliu/osudb/internal/options"
	"github.com/arloliu/osudb/log"
)

// DefaultDebounce is how long the watcher waits after the last write before
// it reports a change.
const DefaultDebounce = 500 * time.Millisecond

// Config holds the watcher settings applied by Option values.
type Config struct {
	debounce time.Duration
	logger   log.Logger
}

// Option configures a Watcher.
type Option = options.Option[*Config]

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return options.New(func(cfg *Config) error {
		if d <= 0 {
			return fmt.Errorf("debounce must be positive, got %s", d)
		}
		cfg.debounce = d

		return nil
	})
}

// WithLogger sets the logger for watch events. A nil logger is ignored.
func WithLogger(logger log.Logger) Option {
	return options.NoError(func(cfg *Config) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}

// Watcher calls a function when the content of a file changes.
type Watcher struct {
	path   string
	cfg    *Config
	notify func(context.Context)

	mu      sync.Mutex
	timer   *time.Timer
	sum     uint64
	haveSum bool
}

// New creates a watcher for path. notify runs on its own goroutine, at most
// once per burst of writes, and only when the file content differs from the
// last time it ran.
func New(path string, notify func(context.Context), opts ...Option) (*Watcher, error) {
	cfg := &Config{debounce: DefaultDebounce, logger: log.NewNoopLogger()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	w := &Watcher{path: filepath.Clean(abs), cfg: cfg, notify: notify}
	// record the current content so an untouched file does not fire
	w.changed()

	return w, nil
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.cfg.logger.Debug("watching", log.String("path", w.path))

	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.cfg.logger.Warn("watch error", log.Err(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.debounce, func() {
		if ctx.Err() != nil || !w.changed() {
			return
		}
		w.notify(ctx)
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

// changed hashes the file and reports whether the digest moved since the
// last call. A missing file counts as unchanged.
func (w *Watcher) changed() bool {
	f, err := os.Open(w.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.cfg.logger.Warn("open watched file", log.String("path", w.path), log.Err(err))
		}
		return false
	}
	defer f.Close()

	sum, err := hash.Sum(f)
	if err != nil {
		w.cfg.logger.Warn("hash watched file", log.String("path", w.path), log.Err(err))
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.haveSum && sum == w.sum {
		w.cfg.logger.Debug("content unchanged", log.String("path", w.path))
		return false
	}
	w.sum, w.haveSum = sum, true

	return true
}
