package filesystem

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ferrule-labs/quaero/internal/logger"
)

// settleDelay is how long a file must stay quiet after its last write
// event before it is handed to the handler. Editors and downloads write
// in bursts.
const settleDelay = 500 * time.Millisecond

// Handler is invoked for each settled text file.
type Handler func(path string)

// Watcher ingests text files as they appear in a directory.
type Watcher struct {
	dir     string
	handler Handler
}

// NewWatcher creates a watcher over dir.
func NewWatcher(dir string, handler Handler) *Watcher {
	return &Watcher{
		dir:     dir,
		handler: handler,
	}
}

// Run watches the directory until the context is cancelled. Create and
// write events on recognised text files are debounced per path and then
// passed to the handler.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("Watching %s", w.dir)

	pending := make(map[string]*time.Timer)
	defer func() {
		for _, timer := range pending {
			timer.Stop()
		}
	}()

	settled := make(chan string)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !IsTextFile(event.Name) {
				continue
			}

			path := event.Name
			if timer, exists := pending[path]; exists {
				// A timer that already fired has a settle in flight
				// that covers this write; re-arming it would run the
				// handler twice.
				if timer.Stop() {
					timer.Reset(settleDelay)
				}
				continue
			}
			pending[path] = time.AfterFunc(settleDelay, func() {
				select {
				case settled <- path:
				case <-ctx.Done():
				}
			})

		case path := <-settled:
			delete(pending, path)
			w.handler(path)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}
