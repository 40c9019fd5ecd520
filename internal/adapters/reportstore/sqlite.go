// Package reportstore provides report archive adapters.
// Clean Architecture: Adapter implementing ports.ReportArchive.
// SQLite keeps the archive portable with zero external services.
package reportstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
	"github.com/rebuildintel/rebuild-go/internal/domain/ports"
)

// defaultListLimit bounds listings when the caller passes no limit.
const defaultListLimit = 20

// SQLiteArchive implements ports.ReportArchive with SQLite-based persistence.
// The report body is stored as JSON; piece count and reused percentage are
// denormalized so listings never decode report bodies.
type SQLiteArchive struct {
	mu       sync.RWMutex
	db       *sql.DB
	dataPath string
}

// NewSQLiteArchive creates a persistent report archive under dataPath.
func NewSQLiteArchive(dataPath string) (*SQLiteArchive, error) {
	if dataPath == "" {
		dataPath = "./data"
	}

	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataPath, "reports.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	archive := &SQLiteArchive{
		db:       db,
		dataPath: dataPath,
	}

	if err := archive.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return archive, nil
}

// initSchema creates the necessary tables. seq orders records by insertion,
// which keeps "newest first" exact even for same-timestamp saves.
func (a *SQLiteArchive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		project_name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		piece_count INTEGER NOT NULL,
		reused_pct REAL NOT NULL,
		report TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_id ON reports(id);
	`
	_, err := a.db.Exec(schema)
	return err
}

// Save stores one report under a fresh UUID and returns its record.
func (a *SQLiteArchive) Save(ctx context.Context, report *entities.Report) (*entities.ReportRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	body, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}

	record := &entities.ReportRecord{
		ID:          uuid.NewString(),
		ProjectName: report.ProjectName,
		CreatedAt:   time.Now().UTC(),
		Report:      report,
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO reports (id, project_name, created_at, piece_count, reused_pct, report)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.ProjectName,
		record.CreatedAt.Format(time.RFC3339Nano),
		len(report.PiecePlans),
		report.ReuseBreakdown.ReusedPct,
		body,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting report: %w", err)
	}

	return record, nil
}

// Get returns the record with the given ID.
func (a *SQLiteArchive) Get(ctx context.Context, id string) (*entities.ReportRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	row := a.db.QueryRowContext(ctx, `
		SELECT id, project_name, created_at, report
		FROM reports WHERE id = ?
	`, id)
	return scanRecord(row)
}

// Latest returns the most recently saved record.
func (a *SQLiteArchive) Latest(ctx context.Context) (*entities.ReportRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	row := a.db.QueryRowContext(ctx, `
		SELECT id, project_name, created_at, report
		FROM reports ORDER BY seq DESC LIMIT 1
	`)
	return scanRecord(row)
}

// List returns summaries of stored reports, newest first.
func (a *SQLiteArchive) List(ctx context.Context, limit int) ([]entities.ReportSummary, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT id, project_name, created_at, piece_count, reused_pct
		FROM reports ORDER BY seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	summaries := []entities.ReportSummary{}
	for rows.Next() {
		var s entities.ReportSummary
		var createdAt string
		if err := rows.Scan(&s.ID, &s.ProjectName, &createdAt, &s.PieceCount, &s.ReusedPct); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Close closes the database connection.
func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}

// Count returns the number of archived reports.
func (a *SQLiteArchive) Count(ctx context.Context) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var count int
	err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&count)
	return count, err
}

// scanRecord decodes one full record row.
func scanRecord(row *sql.Row) (*entities.ReportRecord, error) {
	var rec entities.ReportRecord
	var createdAt string
	var body []byte

	err := row.Scan(&rec.ID, &rec.ProjectName, &createdAt, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp: %w", err)
	}

	var report entities.Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	rec.Report = &report

	return &rec, nil
}
