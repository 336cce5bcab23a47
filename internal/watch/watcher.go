// Package watch detects wholesale replacement of the catalog file.
// The upstream producer swaps the file with an atomic rename, which
// surfaces as create/rename events on the data directory.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// CatalogWatcher watches the directory containing the catalog file and
// invokes a callback when the file is replaced. Events are debounced so
// a write-then-rename sequence triggers one reload.
type CatalogWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	catalogPath string
	onReload    func()
	debounce    time.Duration
	logger      *zap.Logger
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewCatalogWatcher creates a watcher for catalogPath. onReload runs on
// the watcher goroutine after each debounced replacement.
func NewCatalogWatcher(catalogPath string, onReload func(), logger *zap.Logger) (*CatalogWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogWatcher{
		watcher:     watcher,
		catalogPath: filepath.Clean(catalogPath),
		onReload:    onReload,
		debounce:    250 * time.Millisecond,
		logger:      logger,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the watcher runs until Stop is
// called or ctx is cancelled. On failure the fsnotify watcher is closed
// and the CatalogWatcher is inert: Stop is still safe to call.
func (w *CatalogWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	// Watch the directory, not the file: a rename replaces the inode and
	// a file-level watch would silently go stale.
	dir := filepath.Dir(w.catalogPath)
	if err := w.watcher.Add(dir); err != nil {
		w.watcher.Close()
		return err
	}
	w.running = true
	w.logger.Info("watching catalog", zap.String("path", w.catalogPath))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to drain.
func (w *CatalogWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *CatalogWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.catalogPath {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C
		case <-timerCh:
			timerCh = nil
			w.logger.Info("catalog replaced, reloading",
				zap.String("path", w.catalogPath))
			w.onReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watch error", zap.Error(err))
		}
	}
}
