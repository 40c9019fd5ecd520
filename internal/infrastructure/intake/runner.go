// Package intake provides the drop-directory processing loop.
// Clean Architecture: Framework/driver layer - outermost circle.
package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rebuildintel/rebuild-go/internal/domain/ports"
	"github.com/rebuildintel/rebuild-go/internal/domain/usecases"
)

// reportSuffix marks runner output; such files are never read back as
// submissions even though they match the watched .json extension.
const reportSuffix = ".report.json"

// debounceWindow collapses the create/write event bursts one file drop emits.
const debounceWindow = 500 * time.Millisecond

// Runner processes submission files dropped into a watched directory and
// writes the resulting report beside each submission.
type Runner struct {
	watcher ports.IntakeWatcher
	loader  ports.SubmissionLoader
	process *usecases.ProcessUseCase
	logger  *zap.Logger

	recent map[string]time.Time
}

// NewRunner creates a Runner with injected dependencies.
func NewRunner(watcher ports.IntakeWatcher, loader ports.SubmissionLoader, process *usecases.ProcessUseCase, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		watcher: watcher,
		loader:  loader,
		process: process,
		logger:  logger,
		recent:  make(map[string]time.Time),
	}
}

// Run watches dir until ctx is done. Malformed submissions are logged and
// skipped; only the watcher itself can end the loop early.
func (r *Runner) Run(ctx context.Context, dir string) error {
	events, err := r.watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	r.logger.Info("intake watching", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Operation == ports.SubmissionRemoved {
				continue
			}
			if strings.HasSuffix(event.Path, reportSuffix) {
				continue
			}
			if r.debounced(event.Path) {
				continue
			}
			r.handle(ctx, event.Path)
		}
	}
}

// debounced reports whether path was handled within the debounce window,
// recording this sighting. Run is single-threaded so no lock is needed.
func (r *Runner) debounced(path string) bool {
	now := time.Now()
	last, seen := r.recent[path]
	r.recent[path] = now
	return seen && now.Sub(last) < debounceWindow
}

func (r *Runner) handle(ctx context.Context, path string) {
	sub, err := r.loader.Load(ctx, path)
	if err != nil {
		r.logger.Warn("skipping malformed submission",
			zap.String("path", path),
			zap.Error(err))
		return
	}

	record, err := r.process.Submit(ctx, *sub)
	if err != nil {
		r.logger.Error("processing submission failed",
			zap.String("path", path),
			zap.Error(err))
		return
	}

	out := reportPath(path)
	data, err := json.MarshalIndent(record.Report, "", "  ")
	if err == nil {
		err = os.WriteFile(out, data, 0644)
	}
	if err != nil {
		r.logger.Error("writing report failed",
			zap.String("path", out),
			zap.Error(err))
		return
	}

	r.logger.Info("submission processed",
		zap.String("submission", path),
		zap.String("report", out),
		zap.String("id", record.ID))
}

// reportPath is the submission path with its extension swapped for
// ".report.json".
func reportPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + reportSuffix
}
