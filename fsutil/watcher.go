package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// EventType is a watched file system change.
type EventType string

const (
	EventAdd       EventType = "add"
	EventChange    EventType = "change"
	EventUnlink    EventType = "unlink"
	EventAddDir    EventType = "addDir"
	EventUnlinkDir EventType = "unlinkDir"
)

// WatchEvent is delivered to a watch callback.
type WatchEvent struct {
	// Path is absolute.
	Path string
	Type EventType
}

// WatchFunc handles a watch event. Errors are logged.
type WatchFunc func(WatchEvent) error

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	Dir string
	// Events restricts delivery to the listed types. Empty delivers all of them.
	Events []EventType
	// Debounce collapses bursts of changes to one path. Default 100ms.
	Debounce time.Duration
	OnEvent  WatchFunc
	Logger   zerolog.Logger
}

// Watcher reports changes below a directory, recursively.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	filter   map[EventType]bool
	debounce time.Duration
	onEvent  WatchFunc
	logger   zerolog.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]fsnotify.Op
	dirs    map[string]bool

	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher for cfg.Dir. Call Start to begin watching.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("fsutil: watch %s: %w", cfg.Dir, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsutil: create watcher: %w", err)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 100 * time.Millisecond
	}

	var filter map[EventType]bool
	if len(cfg.Events) > 0 {
		filter = make(map[EventType]bool, len(cfg.Events))
		for _, t := range cfg.Events {
			filter[t] = true
		}
	}

	return &Watcher{
		watcher:  fw,
		dir:      dir,
		filter:   filter,
		debounce: cfg.Debounce,
		onEvent:  cfg.OnEvent,
		logger:   cfg.Logger,
		timers:   make(map[string]*time.Timer),
		pending:  make(map[string]fsnotify.Op),
		dirs:     make(map[string]bool),
		done:     make(chan struct{}),
	}, nil
}

// Start registers the directory tree and begins delivering events.
func (w *Watcher) Start() error {
	if err := w.addTree(w.dir, false); err != nil {
		return fmt.Errorf("fsutil: watch %s: %w", w.dir, err)
	}
	go w.loop()
	w.logger.Info().Str("path", w.dir).Msg("watcher started")
	return nil
}

// Stop ends watching. Pending debounced events are dropped.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.done)
	})

	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	clear(w.timers)
	clear(w.pending)
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("fsutil: close watcher: %w", err)
	}
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.schedule(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("watcher error")
		case <-w.done:
			return
		}
	}
}

// schedule merges ev into the pending operations for its path and
// (re)starts the path's debounce timer.
func (w *Watcher) schedule(ev fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[ev.Name] |= ev.Op
	if t, ok := w.timers[ev.Name]; ok {
		t.Stop()
	}
	name := ev.Name
	w.timers[name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		op := w.pending[name]
		delete(w.pending, name)
		delete(w.timers, name)
		w.mu.Unlock()

		select {
		case <-w.done:
		default:
			w.process(name, op)
		}
	})
}

func (w *Watcher) process(name string, op fsnotify.Op) {
	info, statErr := os.Stat(name)

	if statErr != nil {
		if !op.Has(fsnotify.Remove) && !op.Has(fsnotify.Rename) {
			return
		}
		w.mu.Lock()
		wasDir := w.dirs[name]
		delete(w.dirs, name)
		w.mu.Unlock()
		if wasDir {
			w.deliver(name, EventUnlinkDir)
			return
		}
		w.deliver(name, EventUnlink)
		return
	}

	switch {
	case op.Has(fsnotify.Create):
		if info.IsDir() {
			if err := w.addTree(name, true); err != nil {
				w.logger.Warn().Err(err).Str("path", name).Msg("watch new directory")
			}
			return
		}
		w.deliver(name, EventAdd)
	case op.Has(fsnotify.Write):
		w.deliver(name, EventChange)
	}
}

// addTree watches root and every directory below it. With announce set,
// each directory and file found is reported as added.
func (w *Watcher) addTree(root string, announce bool) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if announce {
				w.deliver(p, EventAdd)
			}
			return nil
		}
		if err := w.watcher.Add(p); err != nil {
			w.logger.Warn().Err(err).Str("path", p).Msg("watch directory")
			return nil
		}
		w.mu.Lock()
		w.dirs[p] = true
		w.mu.Unlock()
		if announce {
			w.deliver(p, EventAddDir)
		}
		return nil
	})
}

func (w *Watcher) deliver(path string, t EventType) {
	if w.onEvent == nil || (w.filter != nil && !w.filter[t]) {
		return
	}
	if err := w.onEvent(WatchEvent{Path: path, Type: t}); err != nil {
		w.logger.Error().Err(err).Str("path", path).Str("event", string(t)).Msg("watch callback")
	}
}
