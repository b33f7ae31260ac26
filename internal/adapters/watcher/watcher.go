// Package watcher imports quote files dropped into a directory.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a file must stay quiet before it is imported.
// Editors and copy tools often emit a create followed by several writes.
const DefaultSettle = 250 * time.Millisecond

// ImportFunc receives the contents of a settled *.json file.
type ImportFunc func(ctx context.Context, path string, contents []byte) error

// Watcher watches one directory for *.json files.
type Watcher struct {
	dir      string
	importFn ImportFunc
	settle   time.Duration
	logger   *slog.Logger

	fs *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*pendingImport
	ready   chan string
}

// pendingImport is the settle timer for one path. A callback whose entry
// has been replaced in Watcher.pending is stale and does nothing.
type pendingImport struct {
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle overrides DefaultSettle.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) { w.settle = d }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New creates the directory if needed and starts watching it. Events are
// only processed once Run is called.
func New(dir string, importFn ImportFunc, opts ...Option) (*Watcher, error) {
	if dir == "" {
		return nil, errors.New("watch directory is required")
	}

	if importFn == nil {
		return nil, errors.New("import function is required")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating watch directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		dir:      dir,
		importFn: importFn,
		settle:   DefaultSettle,
		logger:   slog.Default(),
		fs:       fsw,
		pending:  make(map[string]*pendingImport),
		ready:    make(chan string, 16),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.logger = w.logger.With(slog.String("component", "watcher"), slog.String("dir", dir))

	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run processes events until ctx is cancelled, then releases the watcher.
// Imports run one at a time on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.shutdown()

	w.logger.InfoContext(ctx, "watching import directory")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}

			if isImportCandidate(event) {
				w.schedule(event.Name)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}

			w.logger.WarnContext(ctx, "watch error", slog.Any("error", err))

		case path := <-w.ready:
			w.importFile(ctx, path)
		}
	}
}

func isImportCandidate(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
		return false
	}

	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}

// schedule restarts the settle timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Stop may lose to a callback already blocked on w.mu; replacing the
	// entry makes that callback stale.
	if prev, ok := w.pending[path]; ok {
		prev.timer.Stop()
	}

	p := &pendingImport{}
	p.timer = time.AfterFunc(w.settle, func() { w.settled(path, p) })
	w.pending[path] = p
}

// settled queues path for import if p is still its current timer.
func (w *Watcher) settled(path string, p *pendingImport) {
	w.mu.Lock()
	if w.pending[path] != p {
		w.mu.Unlock()
		return
	}

	delete(w.pending, path)
	w.mu.Unlock()

	select {
	case w.ready <- path:
	default:
		w.logger.Warn("import queue full, dropping file event", slog.String("file", path))
	}
}

func (w *Watcher) importFile(ctx context.Context, path string) {
	logger := w.logger.With(slog.String("file", filepath.Base(path)))

	contents, err := os.ReadFile(path) //nolint:gosec // path comes from the watched directory
	if err != nil {
		logger.WarnContext(ctx, "reading import file failed", slog.Any("error", err))
		return
	}

	if err := w.importFn(ctx, path, contents); err != nil {
		logger.WarnContext(ctx, "import failed", slog.Any("error", err))
		return
	}

	logger.DebugContext(ctx, "import file processed")
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if err := w.fs.Close(); err != nil {
		w.logger.Warn("closing watcher failed", slog.Any("error", err))
	}
}
