package deck

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WeightsWatcher reloads a planner's weight table when the backing TOML
// file changes, so composition tuning does not require a restart.
type WeightsWatcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchWeights starts watching the weights file and applies valid updates
// to the planner. Invalid edits are logged and ignored; the planner keeps
// its last good table.
func WatchWeights(path string, planner *Planner) (*WeightsWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create weights watcher: %w", err)
	}

	// Watch the directory: editors commonly replace the file on save,
	// which drops a watch registered on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch weights directory %s: %w", dir, err)
	}

	w := &WeightsWatcher{
		watcher: watcher,
		done:    make(chan struct{}),
	}

	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				table, err := LoadWeights(path)
				if err != nil {
					log.Printf("[WeightsWatcher] Ignoring invalid weights update: %v", err)
					continue
				}
				planner.SetWeights(table)
				log.Printf("[WeightsWatcher] Reloaded strategy weights from %s", path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[WeightsWatcher] Watch error: %v", err)
			case <-w.done:
				return
			}
		}
	}()

	return w, nil
}

// Close stops the watcher.
func (w *WeightsWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
