package config

import (
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads Config from disk when its backing files change,
// following the teacher's ConfigManager hot-reload pattern
// (internal/core/config_manager.go: watchFiles/handleReload) adapted from
// a single-callback design to an exported Current()/Close() pair.
type Watcher struct {
	watcher *fsnotify.Watcher
	paths   []string

	mu      sync.RWMutex
	current Config

	onReload func(Config, error)
	stop     chan struct{}
}

// NewWatcher loads the config once from paths, then watches those paths
// for write events and reloads on change. onReload, if non-nil, is called
// after every reload attempt (successful or not).
func NewWatcher(onReload func(Config, error), paths ...string) (*Watcher, error) {
	cfg, err := Load(paths...)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		// Watching a file that doesn't exist yet is not fatal; it simply
		// won't fire reload events until it's created at that path.
		_ = fw.Add(p)
	}

	w := &Watcher{
		watcher:  fw,
		paths:    paths,
		current:  cfg,
		onReload: onReload,
		stop:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Current returns the most recently loaded configuration.
func (w *Watcher) Current() Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Close stops the watcher goroutine and releases its file handles.
func (w *Watcher) Close() {
	close(w.stop)
	w.watcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) {
				w.reload()
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.paths...)
	if err == nil {
		w.mu.Lock()
		w.current = cfg
		w.mu.Unlock()
	}
	if w.onReload != nil {
		w.onReload(cfg, err)
	}
}
