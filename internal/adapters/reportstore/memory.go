// Package reportstore - memory.go is the in-memory archive for tests and
// zero-config runs.
package reportstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
	"github.com/rebuildintel/rebuild-go/internal/domain/ports"
)

// InMemoryArchive is a simple in-memory report archive.
// Open-Closed: Can be replaced with the SQLite adapter without changing usecases.
type InMemoryArchive struct {
	mu      sync.RWMutex
	records []*entities.ReportRecord
}

// NewInMemoryArchive creates a new in-memory archive.
func NewInMemoryArchive() *InMemoryArchive {
	return &InMemoryArchive{}
}

// Save stores one report under a fresh UUID.
func (a *InMemoryArchive) Save(ctx context.Context, report *entities.Report) (*entities.ReportRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	record := &entities.ReportRecord{
		ID:          uuid.NewString(),
		ProjectName: report.ProjectName,
		CreatedAt:   time.Now().UTC(),
		Report:      report,
	}
	a.records = append(a.records, record)
	return record, nil
}

// Get returns the record with the given ID.
func (a *InMemoryArchive) Get(ctx context.Context, id string) (*entities.ReportRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, rec := range a.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, ports.ErrNotFound
}

// Latest returns the most recently saved record.
func (a *InMemoryArchive) Latest(ctx context.Context) (*entities.ReportRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(a.records) == 0 {
		return nil, ports.ErrNotFound
	}
	return a.records[len(a.records)-1], nil
}

// List returns summaries, newest first.
func (a *InMemoryArchive) List(ctx context.Context, limit int) ([]entities.ReportSummary, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if limit <= 0 {
		limit = defaultListLimit
	}

	summaries := []entities.ReportSummary{}
	for i := len(a.records) - 1; i >= 0 && len(summaries) < limit; i-- {
		rec := a.records[i]
		summaries = append(summaries, entities.ReportSummary{
			ID:          rec.ID,
			ProjectName: rec.ProjectName,
			CreatedAt:   rec.CreatedAt,
			PieceCount:  len(rec.Report.PiecePlans),
			ReusedPct:   rec.Report.ReuseBreakdown.ReusedPct,
		})
	}
	return summaries, nil
}

// Count returns the number of archived reports.
func (a *InMemoryArchive) Count(ctx context.Context) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records), nil
}
