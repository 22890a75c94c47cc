package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vyrodovalexey/routematch/internal/observability"
)

// ReloadCallback is called with every route table that loads and validates.
type ReloadCallback func(*RouteTable)

// ErrorCallback is called when a reload fails.
type ErrorCallback func(error)

// StartCallback receives the initial route table before watching begins.
// An error aborts Start.
type StartCallback func(*RouteTable) error

// Watcher watches a route table file and reloads it when it changes.
type Watcher struct {
	path          string
	watcher       *fsnotify.Watcher
	callback      ReloadCallback
	errorCallback ErrorCallback
	startCallback StartCallback
	logger        observability.Logger
	loader        *Loader
	validator     *Validator
	debounceDelay time.Duration
	lastConfig    *RouteTable
	mu            sync.RWMutex
	stopCh        chan struct{}
	stoppedCh     chan struct{}
	running       bool
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay for file changes.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = delay
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithErrorCallback sets the error callback for the watcher.
func WithErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.errorCallback = callback
	}
}

// WithStartCallback sets the callback run with the initial table. Reload
// callbacks never run before it returns.
func WithStartCallback(callback StartCallback) WatcherOption {
	return func(w *Watcher) {
		w.startCallback = callback
	}
}

// WithLoader sets the loader used to read the file.
func WithLoader(loader *Loader) WatcherOption {
	return func(w *Watcher) {
		w.loader = loader
	}
}

// NewWatcher creates a new route table watcher.
func NewWatcher(path string, callback ReloadCallback, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		watcher:       fsWatcher,
		callback:      callback,
		debounceDelay: 100 * time.Millisecond,
		logger:        observability.NopLogger(),
		loader:        NewLoader(),
		validator:     NewValidator(),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start loads the file once and then watches it until ctx is done or Stop
// is called. The initial table goes to the start callback, not the reload
// callback; it can also be read with GetLastConfig.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	table, err := w.load()
	if err != nil {
		return err
	}

	// Watch the directory: editors replace files by rename.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	// events queued while the callback runs are handled after it
	if w.startCallback != nil {
		if err := w.startCallback(table); err != nil {
			_ = w.watcher.Close()
			return err
		}
	}

	w.mu.Lock()
	w.lastConfig = table
	w.running = true
	w.mu.Unlock()

	w.logger.Info("started watching route table",
		observability.String("path", w.path),
	)

	go w.watch(ctx)

	return nil
}

// Stop stops watching the file.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.watcher.Close()
}

// GetLastConfig returns the last successfully loaded route table.
func (w *Watcher) GetLastConfig() *RouteTable {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastConfig
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("route table watcher stopped due to context cancellation")
			return

		case <-w.stopCh:
			w.logger.Info("route table watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			debounceTimer, debounceCh = w.handleFileEvent(event, debounceTimer, debounceCh)

		case <-debounceCh:
			debounceCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleWatchError(err)
		}
	}
}

func (w *Watcher) handleFileEvent(
	event fsnotify.Event,
	debounceTimer *time.Timer,
	debounceCh <-chan time.Time,
) (timer *time.Timer, ch <-chan time.Time) {
	if filepath.Clean(event.Name) != w.path {
		return debounceTimer, debounceCh
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return debounceTimer, debounceCh
	}

	w.logger.Debug("route table changed",
		observability.String("path", event.Name),
		observability.String("op", event.Op.String()),
	)

	if debounceTimer != nil {
		debounceTimer.Stop()
	}
	debounceTimer = time.NewTimer(w.debounceDelay)
	return debounceTimer, debounceTimer.C
}

func (w *Watcher) handleWatchError(err error) {
	w.logger.Error("route table watcher error",
		observability.Error(err),
	)
	if w.errorCallback != nil {
		w.errorCallback(err)
	}
}

func (w *Watcher) reload() {
	w.logger.Info("reloading route table",
		observability.String("path", w.path),
	)

	if err := w.ForceReload(); err != nil {
		w.logger.Error("route table reload failed",
			observability.Error(err),
		)
		if w.errorCallback != nil {
			w.errorCallback(err)
		}
		return
	}

	w.logger.Info("route table reloaded successfully")
}

// ForceReload loads and validates the file now and passes it to the
// callback. The last good table is kept when it fails.
func (w *Watcher) ForceReload() error {
	table, err := w.load()
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.lastConfig = table
	w.mu.Unlock()

	if w.callback != nil {
		w.callback(table)
	}

	return nil
}

func (w *Watcher) load() (*RouteTable, error) {
	table, err := w.loader.Load(w.path)
	if err != nil {
		return nil, err
	}
	if err := w.validator.Validate(table); err != nil {
		return nil, err
	}
	return table, nil
}
