package session

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// SignalWatcher turns marker files in a control directory into
// lifecycle operations, so operators can trigger cleanup without going
// through the CLI process that owns the engine:
//
//	cleanup-all      tears down every session (emergency path)
//	cleanup-<id>     tears down one session
//
// Handled marker files are removed after the operation runs.
type SignalWatcher struct {
	dir     string
	manager *Manager

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewSignalWatcher starts watching dir for cleanup markers. The
// directory is created if missing. A watcher that cannot be
// initialized degrades to nil without failing the engine; file-based
// control is a convenience, not a requirement.
func NewSignalWatcher(dir string, manager *Manager) (*SignalWatcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	sw := &SignalWatcher{
		dir:     dir,
		manager: manager,
		watcher: w,
		done:    make(chan struct{}),
	}
	go sw.watch()
	return sw, nil
}

// watch reacts to marker-file creation in the control directory.
func (sw *SignalWatcher) watch() {
	for {
		select {
		case <-sw.done:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == 0 && event.Op&fsnotify.Write == 0 {
				continue
			}
			sw.handle(filepath.Base(event.Name))
		case <-sw.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// handle dispatches one marker file and removes it.
func (sw *SignalWatcher) handle(name string) {
	switch {
	case name == "cleanup-all":
		n := sw.manager.CleanupAll()
		log.Printf("[signals] emergency cleanup removed %d sessions", n)
	case strings.HasPrefix(name, "cleanup-"):
		id := strings.TrimPrefix(name, "cleanup-")
		if err := sw.manager.Cleanup(id); err != nil {
			log.Printf("[signals] cleanup %s failed: %v", id, err)
		}
	default:
		return
	}
	os.Remove(filepath.Join(sw.dir, name))
}

// Close stops the watcher.
func (sw *SignalWatcher) Close() {
	close(sw.done)
	sw.watcher.Close()
}
