// Package intake provides submission-file adapters for the drop directory.
// Clean Architecture: Adapters implementing ports.IntakeWatcher and
// ports.SubmissionLoader.
package intake

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/rebuildintel/rebuild-go/internal/domain/ports"
)

// FSNotifyWatcher implements ports.IntakeWatcher using fsnotify.
type FSNotifyWatcher struct {
	watcher    *fsnotify.Watcher
	extensions []string // submission extensions to watch (e.g. ".yaml")
}

// NewFSNotifyWatcher creates a new intake watcher.
func NewFSNotifyWatcher(extensions []string) (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if len(extensions) == 0 {
		extensions = []string{".yaml", ".yml", ".json"}
	}

	return &FSNotifyWatcher{
		watcher:    w,
		extensions: extensions,
	}, nil
}

// Watch starts monitoring the intake directory and emits submission events.
func (w *FSNotifyWatcher) Watch(ctx context.Context, dir string) (<-chan ports.IntakeEvent, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan ports.IntakeEvent, 100)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.isSubmission(event.Name) {
					continue
				}

				var op ports.IntakeOperation
				switch {
				case event.Op&fsnotify.Create == fsnotify.Create:
					op = ports.SubmissionCreated
				case event.Op&fsnotify.Write == fsnotify.Write:
					op = ports.SubmissionModified
				case event.Op&fsnotify.Remove == fsnotify.Remove:
					op = ports.SubmissionRemoved
				default:
					continue
				}

				select {
				case events <- ports.IntakeEvent{Path: event.Name, Operation: op}:
				case <-ctx.Done():
					return
				}
			case _, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return events, nil
}

// Stop stops the watcher.
func (w *FSNotifyWatcher) Stop() error {
	return w.watcher.Close()
}

// isSubmission checks if the file has a watched submission extension.
func (w *FSNotifyWatcher) isSubmission(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
