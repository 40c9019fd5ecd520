// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
// This follows Dependency Inversion Principle (DIP) strictly.
package ports

import (
	"context"
	"errors"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
)

// ErrNotFound is returned by archive lookups when no matching record exists,
// including Latest on an empty archive.
var ErrNotFound = errors.New("report not found")

// NarrativeService produces the optional engineering commentary attached to a
// report. It is a pass-through collaborator: the pipeline never parses or
// post-processes what it returns, and a failure here never fails a run.
type NarrativeService interface {
	// Brief generates commentary from a system prompt and a user prompt.
	Brief(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Enabled reports whether the service is configured to produce output.
	// Disabled services let callers skip prompt assembly entirely.
	Enabled() bool
}

// ReportArchive persists finished reports.
// Dependency Inversion: Usecases depend on this abstraction, not SQLite directly.
type ReportArchive interface {
	// Save stores one finished report and returns its archive record.
	Save(ctx context.Context, report *entities.Report) (*entities.ReportRecord, error)

	// Get returns the record with the given ID.
	Get(ctx context.Context, id string) (*entities.ReportRecord, error)

	// Latest returns the most recently saved record.
	Latest(ctx context.Context) (*entities.ReportRecord, error)

	// List returns summaries of stored reports, newest first.
	List(ctx context.Context, limit int) ([]entities.ReportSummary, error)
}

// GeometryExporter renders piece plans into a mesh interchange format.
type GeometryExporter interface {
	// Export renders the pieces and returns the encoded document bytes.
	Export(pieces []entities.Piece) ([]byte, error)

	// FileExtension returns the extension for exported files (e.g. ".obj").
	FileExtension() string
}

// IntakeWatcher monitors a drop directory for submission files.
type IntakeWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan IntakeEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// IntakeEvent represents a submission file change.
type IntakeEvent struct {
	Path      string
	Operation IntakeOperation
}

// IntakeOperation is the type of submission file change.
type IntakeOperation int

const (
	SubmissionCreated IntakeOperation = iota
	SubmissionModified
	SubmissionRemoved
)

// SubmissionLoader reads and decodes submission files from disk.
type SubmissionLoader interface {
	// Load reads a submission from the given path.
	Load(ctx context.Context, path string) (*entities.ProjectSubmission, error)

	// SupportedExtensions returns file extensions this loader handles.
	SupportedExtensions() []string
}
