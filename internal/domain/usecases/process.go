// Package usecases - process.go wires pipeline runs to the archive and exporter.
package usecases

import (
	"context"
	"fmt"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
	"github.com/rebuildintel/rebuild-go/internal/domain/ports"
)

// ProcessUseCase runs the pipeline and persists the result. The pipeline
// itself is total; errors here come only from the storage and export edges.
type ProcessUseCase struct {
	analyzer *AnalyzeUseCase
	archive  ports.ReportArchive
	exporter ports.GeometryExporter
}

// NewProcessUseCase creates a ProcessUseCase with injected dependencies.
func NewProcessUseCase(analyzer *AnalyzeUseCase, archive ports.ReportArchive, exporter ports.GeometryExporter) *ProcessUseCase {
	return &ProcessUseCase{
		analyzer: analyzer,
		archive:  archive,
		exporter: exporter,
	}
}

// Process analyzes one submission's inputs and archives the report.
func (uc *ProcessUseCase) Process(ctx context.Context, meta entities.ProjectMetadata, manifest entities.FileManifest) (*entities.ReportRecord, error) {
	report := uc.analyzer.Analyze(ctx, meta, manifest)

	record, err := uc.archive.Save(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("archiving report: %w", err)
	}
	return record, nil
}

// Submit is Process for the on-disk submission form.
func (uc *ProcessUseCase) Submit(ctx context.Context, sub entities.ProjectSubmission) (*entities.ReportRecord, error) {
	meta, manifest := sub.Inputs()
	return uc.Process(ctx, meta, manifest)
}

// ExportLatest renders the most recently archived report's pieces through
// the geometry exporter. Returns ports.ErrNotFound when nothing has been
// processed yet.
func (uc *ProcessUseCase) ExportLatest(ctx context.Context) ([]byte, error) {
	record, err := uc.archive.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading latest report: %w", err)
	}

	data, err := uc.exporter.Export(record.Report.PiecePlans)
	if err != nil {
		return nil, fmt.Errorf("exporting geometry: %w", err)
	}
	return data, nil
}

// Recent lists archive summaries, newest first.
func (uc *ProcessUseCase) Recent(ctx context.Context, limit int) ([]entities.ReportSummary, error) {
	summaries, err := uc.archive.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	return summaries, nil
}
