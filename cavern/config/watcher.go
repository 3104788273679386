package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports background configs changed on disk. Names arrive on a
// buffered channel that the driver drains once per tick.
type Watcher struct {
	w      *fsnotify.Watcher
	events chan string
	done   chan struct{}
	wg     sync.WaitGroup
}

const watcherBuffer = 16

// NewWatcher watches every existing directory in dirs. Missing directories
// are skipped.
func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			slog.Debug("Not watching missing directory", "dir", dir)
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
		slog.Debug("Watching background configs", "dir", dir)
	}

	w := &Watcher{
		w:      fw,
		events: make(chan string, watcherBuffer),
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			base := filepath.Base(event.Name)
			if !strings.HasSuffix(base, ".json") {
				continue
			}
			name := strings.TrimSuffix(base, ".json")
			select {
			case w.events <- name:
			default:
				slog.Debug("Dropping config change, reload already queued", "name", name)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			slog.Warn("Config watcher error", "error", err)
		}
	}
}

// Events is the channel of changed config names, without extension.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Drain returns the distinct names queued so far without blocking.
func (w *Watcher) Drain() []string {
	var names []string
	seen := map[string]bool{}
	for {
		select {
		case name := <-w.events:
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		default:
			return names
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.w.Close()
	w.wg.Wait()
	return err
}
