package cliconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kamalkashyapp/fanout/internal/logging"
)

// Watcher monitors a TOML config file and invokes a callback with the freshly
// parsed contents after changes settle. It watches the containing directory so
// editors that replace the file atomically are still picked up.
type Watcher struct {
	mu sync.Mutex

	path          string
	debounceDelay time.Duration
	onLoad        func(FileConfig)
	logger        logging.Logger

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// NewWatcher creates a watcher for the config file at path. onLoad runs on the
// watcher goroutine after every debounced reload.
func NewWatcher(path string, onLoad func(FileConfig), logger logging.Logger) *Watcher {
	return &Watcher{
		path:          path,
		debounceDelay: 100 * time.Millisecond,
		onLoad:        onLoad,
		logger:        logger,
	}
}

// Start begins watching. It returns immediately; reloads happen in the
// background until Stop is called or ctx is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.watchLoop(watchCtx, watcher)
	return nil
}

// Stop halts the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()
}

func (w *Watcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer w.wg.Done()
	defer watcher.Close()

	base := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounceReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("config watcher error", logging.Field{Key: "error", Value: err.Error()})
			}
		}
	}
}

func (w *Watcher) debounceReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}

	w.debounce = time.AfterFunc(w.debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		if w.logger != nil {
			w.logger.Warn("reloading config file",
				logging.Field{Key: "path", Value: w.path},
				logging.Field{Key: "error", Value: err.Error()})
		}
		return
	}
	if w.logger != nil {
		w.logger.Info("config file reloaded", logging.Field{Key: "path", Value: w.path})
	}
	if w.onLoad != nil {
		w.onLoad(fc)
	}
}
