package loader

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce collapses bursts of writes into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher signals on Reloads when any watched file is written or created.
//
// Parent directories are watched rather than the files themselves so that
// editors replacing a file by rename still trigger a reload.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	done     chan struct{}
	reloads  chan struct{}
	files    map[string]struct{}
	debounce time.Duration
	log      zerolog.Logger
}

// NewWatcher starts watching paths.
func NewWatcher(paths []string, debounce time.Duration, log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		watcher:  fw,
		done:     make(chan struct{}),
		reloads:  make(chan struct{}, 1),
		files:    make(map[string]struct{}, len(paths)),
		debounce: debounce,
		log:      log.With().Str("component", "watcher").Logger(),
	}

	dirs := map[string]struct{}{}
	for _, p := range paths {
		abs, absErr := filepath.Abs(p)
		if absErr != nil {
			abs = p
		}
		w.files[filepath.Clean(abs)] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if addErr := fw.Add(dir); addErr != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, addErr)
		}
		w.log.Debug().Str("dir", dir).Msg("watching for dataset changes")
	}

	go w.loop(fw)
	return w, nil
}

// Reloads delivers one value per debounced burst of changes. Signals are
// coalesced while the receiver is busy.
func (w *Watcher) Reloads() <-chan struct{} { return w.reloads }

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}
	close(w.done)
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

func (w *Watcher) loop(fw *fsnotify.Watcher) {
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if _, watched := w.files[filepath.Clean(event.Name)]; !watched {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(w.debounce, func() { w.signal(name) })

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("file watcher error")

		case <-w.done:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) signal(name string) {
	select {
	case <-w.done:
		return
	default:
	}
	w.log.Debug().Str("file", name).Msg("dataset change detected")
	select {
	case w.reloads <- struct{}{}:
	default:
	}
}
