package config

import (
	"log/slog"
	"os"
	"time"
)

// Watcher polls a configuration file for changes and invokes a callback
// with the freshly loaded configuration. Useful for tuning linking
// options on a running instance without a restart.
type Watcher struct {
	path     string
	baseline time.Time
	interval time.Duration
	stopCh   chan struct{}
	log      *slog.Logger
	onReload func(*Config)
}

// NewWatcher creates a watcher for the given configuration file. The
// baseline is the file's current modification time; a missing file
// simply means any later appearance counts as a change.
func NewWatcher(path string, interval time.Duration, log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	w := &Watcher{
		path:     path,
		interval: interval,
		stopCh:   make(chan struct{}),
		log:      log,
	}
	if info, err := os.Stat(path); err == nil {
		w.baseline = info.ModTime()
	}
	return w
}

// OnReload sets the callback invoked after a successful reload. It runs
// on the watcher goroutine.
func (w *Watcher) OnReload(callback func(*Config)) {
	w.onReload = callback
}

// Start begins polling in a background goroutine.
func (w *Watcher) Start() {
	w.stopCh = make(chan struct{})
	go w.watchLoop()
}

// Stop ends the polling goroutine.
func (w *Watcher) Stop() {
	close(w.stopCh)
}

func (w *Watcher) watchLoop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if cfg, ok := w.checkForUpdate(); ok && w.onReload != nil {
				w.onReload(cfg)
			}
		}
	}
}

// checkForUpdate reloads the file when its modification time has moved
// past the baseline. A file that fails to parse or validate leaves the
// running configuration alone; the baseline still advances so a broken
// edit is reported once, not every tick.
func (w *Watcher) checkForUpdate() (*Config, bool) {
	info, err := os.Stat(w.path)
	if err != nil {
		return nil, false
	}
	if !info.ModTime().After(w.baseline) {
		return nil, false
	}
	w.baseline = info.ModTime()

	cfg, err := Load(w.path)
	if err != nil {
		w.log.Warn("config reload failed", "path", w.path, "error", err)
		return nil, false
	}
	w.log.Info("config reloaded", "path", w.path)
	return cfg, true
}
