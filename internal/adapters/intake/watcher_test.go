package intake

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rebuildintel/rebuild-go/internal/domain/ports"
)

func TestFSNotifyWatcher_Creation(t *testing.T) {
	watcher, err := NewFSNotifyWatcher([]string{".yaml"})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer watcher.Stop()
}

func TestFSNotifyWatcher_DefaultExtensions(t *testing.T) {
	watcher, _ := NewFSNotifyWatcher(nil)
	defer watcher.Stop()

	if len(watcher.extensions) != 3 {
		t.Errorf("expected 3 default extensions, got %d", len(watcher.extensions))
	}
}

func TestFSNotifyWatcher_WatchDirectory(t *testing.T) {
	dir, _ := os.MkdirTemp("", "intake-watch-test-*")
	defer os.RemoveAll(dir)

	watcher, _ := NewFSNotifyWatcher([]string{".yaml"})
	defer watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, err := watcher.Watch(ctx, dir)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	// Drop a submission
	go func() {
		time.Sleep(100 * time.Millisecond)
		os.WriteFile(filepath.Join(dir, "project.yaml"), []byte("project_name: Yard"), 0644)
	}()

	select {
	case event := <-events:
		if event.Operation != ports.SubmissionCreated {
			t.Errorf("expected create event, got %v", event.Operation)
		}
	case <-ctx.Done():
		t.Error("timeout waiting for event")
	}
}

func TestFSNotifyWatcher_FiltersByExtension(t *testing.T) {
	dir, _ := os.MkdirTemp("", "intake-watch-test-*")
	defer os.RemoveAll(dir)

	watcher, _ := NewFSNotifyWatcher([]string{".yaml"})
	defer watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	events, _ := watcher.Watch(ctx, dir)

	// A report artifact must not feed back into intake
	os.WriteFile(filepath.Join(dir, "project.report.txt"), []byte("done"), 0644)

	select {
	case <-events:
		t.Error("should not receive event for .txt")
	case <-time.After(300 * time.Millisecond):
		// Expected - no event
	}
}

func TestFSNotifyWatcher_Stop(t *testing.T) {
	watcher, _ := NewFSNotifyWatcher(nil)
	err := watcher.Stop()
	if err != nil {
		t.Errorf("stop failed: %v", err)
	}
}
