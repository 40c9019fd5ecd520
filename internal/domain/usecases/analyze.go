// Package usecases - analyze.go orchestrates one full pipeline run.
package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
	"github.com/rebuildintel/rebuild-go/internal/domain/ports"
)

// defaultProjectName substitutes for a blank project name in report text.
const defaultProjectName = "Unnamed Project"

// narrativeFallback is merged into the report whenever the narrative
// collaborator is absent, disabled, or fails. Narrative trouble never fails
// a run.
const narrativeFallback = "AI engineering reasoning unavailable. Set OPENAI_API_KEY to enable engineering commentary."

// narrativeSystemPrompt is the fixed persona for the engineering commentary.
const narrativeSystemPrompt = "You are a senior demolition and structural reuse engineer. " +
	"Comment on the salvage plan in under 120 words. Be concrete and direct, no preamble."

// AnalyzeUseCase runs the deterministic analysis pipeline.
// Clean Architecture: it owns the stage objects and depends on the narrative
// port only; storage and transport stay outside.
type AnalyzeUseCase struct {
	seeds       *SeedDeriver
	decomposer  *PieceDecomposer
	cutting     *CuttingPlanGenerator
	structural  *StructuralAnalyzer
	fea         *FiniteElementEstimator
	disaster    *DisasterSimulator
	environment *EnvironmentalImpactEstimator
	feasibility *MaterialFeasibilityReasoner
	accountant  *CostCarbonAccountant
	assembler   *ReportAssembler
	narrative   ports.NarrativeService
}

// NewAnalyzeUseCase creates the pipeline with the given constants and the
// optional narrative collaborator (nil means disabled).
func NewAnalyzeUseCase(cfg EngineConfig, narrative ports.NarrativeService) *AnalyzeUseCase {
	cfg = cfg.withDefaults()
	return &AnalyzeUseCase{
		seeds:       NewSeedDeriver(),
		decomposer:  NewPieceDecomposer(cfg),
		cutting:     NewCuttingPlanGenerator(),
		structural:  NewStructuralAnalyzer(),
		fea:         NewFiniteElementEstimator(cfg),
		disaster:    NewDisasterSimulator(),
		environment: NewEnvironmentalImpactEstimator(),
		feasibility: NewMaterialFeasibilityReasoner(cfg),
		accountant:  NewCostCarbonAccountant(cfg),
		assembler:   NewReportAssembler(),
		narrative:   narrative,
	}
}

// Analyze runs the pipeline over one submission. It is total: every input
// shape yields a complete report, and the context is consulted only by the
// narrative call at the end.
func (uc *AnalyzeUseCase) Analyze(ctx context.Context, meta entities.ProjectMetadata, manifest entities.FileManifest) *entities.Report {
	// 1. Derive the per-concern seeds and the piece sequence.
	seeds := uc.seeds.Derive(meta, manifest)
	pieces := uc.decomposer.Decompose(seeds, manifest.AssetCount(), manifest.ScanCount())

	// 2. Fan out the independent stages. Each one reads only immutable run
	// state and writes its own slot, so parallel execution cannot change
	// results.
	var (
		instructions []string
		cuttingWaste float64
		structMap    map[string]float64
		feaTable     entities.FiniteElementAnalysis
		disasters    map[string]entities.DisasterAssessment
		impact       map[string]float64
		pollution    map[string]float64
		verdict      entities.FeasibilityVerdict
		breakdown    entities.ReuseBreakdown
	)

	var g errgroup.Group
	g.Go(func() error {
		instructions, cuttingWaste = uc.cutting.Plan(meta, pieces)
		return nil
	})
	g.Go(func() error {
		structMap = uc.structural.Analyze(meta, pieces, seeds.Structural)
		return nil
	})
	g.Go(func() error {
		feaTable = uc.fea.Estimate(pieces, seeds.Structural)
		return nil
	})
	g.Go(func() error {
		disasters = uc.disaster.Simulate(meta, seeds.Hazard)
		return nil
	})
	g.Go(func() error {
		impact, pollution = uc.environment.Estimate(meta, len(pieces), seeds.Environment)
		return nil
	})
	g.Go(func() error {
		verdict, breakdown = uc.feasibility.Assess(meta, pieces, manifest.ScanCount(), seeds.Feasibility)
		return nil
	})
	_ = g.Wait() // stages are total, the group never carries an error

	// 3. The cutting stage owns the plan-level waste figure; fold it into
	// the breakdown before accounting.
	breakdown.CuttingWasteReductionPct = cuttingWaste
	costs := uc.accountant.Account(pieces, verdict)

	// 4. Narrative commentary is an opaque pass-through.
	narrative := uc.runNarrative(ctx, meta, manifest, pieces, breakdown, verdict)

	return uc.assembler.Assemble(stageOutputs{
		meta:         meta,
		manifest:     manifest,
		pieces:       pieces,
		instructions: instructions,
		breakdown:    breakdown,
		verdict:      verdict,
		disasters:    disasters,
		pollution:    pollution,
		impact:       impact,
		structural:   structMap,
		fea:          feaTable,
		costs:        costs,
		narrative:    narrative,
	})
}

// runNarrative asks the collaborator for commentary, degrading to the fixed
// fallback on absence, failure, or empty output.
func (uc *AnalyzeUseCase) runNarrative(ctx context.Context, meta entities.ProjectMetadata, manifest entities.FileManifest, pieces []entities.Piece, breakdown entities.ReuseBreakdown, verdict entities.FeasibilityVerdict) string {
	if uc.narrative == nil || !uc.narrative.Enabled() {
		return narrativeFallback
	}

	prompt, err := narrativeUserPrompt(meta, manifest, pieces, breakdown, verdict)
	if err != nil {
		return narrativeFallback
	}

	text, err := uc.narrative.Brief(ctx, narrativeSystemPrompt, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		return narrativeFallback
	}
	return text
}

// narrativeUserPrompt encodes the run context the commentary should react to.
func narrativeUserPrompt(meta entities.ProjectMetadata, manifest entities.FileManifest, pieces []entities.Piece, breakdown entities.ReuseBreakdown, verdict entities.FeasibilityVerdict) (string, error) {
	payload := struct {
		ProjectName   string   `json:"project_name"`
		HazardProfile string   `json:"hazard_profile"`
		AssetFiles    int      `json:"asset_files"`
		ScanFiles     int      `json:"scan_files"`
		PieceCount    int      `json:"piece_count"`
		ReusedPct     float64  `json:"reused_pct"`
		RoofNewPct    float64  `json:"roof_new_pct"`
		Reusable      []string `json:"reusable_components"`
		NeedsNew      []string `json:"needs_new_components"`
	}{
		ProjectName:   meta.ProjectName,
		HazardProfile: meta.HazardProfile,
		AssetFiles:    manifest.AssetCount(),
		ScanFiles:     manifest.ScanCount(),
		PieceCount:    len(pieces),
		ReusedPct:     breakdown.ReusedPct,
		RoofNewPct:    breakdown.RoofNewPct,
		Reusable:      verdict.ReusableComponents,
		NeedsNew:      verdict.NeedsNewComponents,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding narrative context: %w", err)
	}
	return "Run context:\n" + string(raw), nil
}

// stageOutputs carries every stage's result into assembly.
type stageOutputs struct {
	meta         entities.ProjectMetadata
	manifest     entities.FileManifest
	pieces       []entities.Piece
	instructions []string
	breakdown    entities.ReuseBreakdown
	verdict      entities.FeasibilityVerdict
	disasters    map[string]entities.DisasterAssessment
	pollution    map[string]float64
	impact       map[string]float64
	structural   map[string]float64
	fea          entities.FiniteElementAnalysis
	costs        entities.CostCarbon
	narrative    string
}

// ReportAssembler composes stage outputs into the terminal report. Pure
// aggregation plus the templated summary and threshold-rule recommendations;
// no numeric derivation happens here.
type ReportAssembler struct{}

// NewReportAssembler creates a ReportAssembler.
func NewReportAssembler() *ReportAssembler {
	return &ReportAssembler{}
}

// Assemble builds the report. Empty stage results stay present as empty
// mappings or sequences - keys are never omitted.
func (a *ReportAssembler) Assemble(out stageOutputs) *entities.Report {
	name := strings.TrimSpace(out.meta.ProjectName)
	if name == "" {
		name = defaultProjectName
	}

	summary := fmt.Sprintf(
		"Processed %s with %d uploaded assets. Estimated that %.1f%% of the structure can be reclaimed while KUKA cutting plans cover every salvaged piece.",
		name, out.manifest.AssetCount(), out.breakdown.ReusedPct,
	)

	return &entities.Report{
		ProjectName:           name,
		Summary:               summary,
		PiecePlans:            ensurePieces(out.pieces),
		CuttingInstructions:   ensureLines(out.instructions),
		ReuseBreakdown:        out.breakdown,
		DisasterSimulation:    ensureAssessments(out.disasters),
		PollutionModel:        ensureMetrics(out.pollution),
		EnvironmentalImpact:   ensureMetrics(out.impact),
		StructuralAnalysis:    ensureMetrics(out.structural),
		FiniteElementAnalysis: out.fea,
		CostAndCarbon:         out.costs,
		Recommendations:       a.recommendations(out.meta, out.breakdown),
		MaterialFeasibility:   out.verdict,
		AIEngineering:         out.narrative,
	}
}

// recommendations applies the fixed threshold rules to the reuse breakdown.
func (a *ReportAssembler) recommendations(meta entities.ProjectMetadata, breakdown entities.ReuseBreakdown) []string {
	recs := []string{}
	if breakdown.ReusedPct < 60 {
		recs = append(recs, "Adopt selective demolition sequencing so the reuse share can climb above 60%.")
	} else {
		recs = append(recs, "Reuse share is strong; keep the current selective-demolition sequencing.")
	}
	if breakdown.RoofNewPct > 10 {
		recs = append(recs, "Specify lightweight polycarbonate panels for the new roof area.")
	}
	if !strings.Contains(strings.ToLower(meta.LidarNotes), "lidar") {
		recs = append(recs, "Commission a higher-resolution LiDAR pass to tighten cut tolerances.")
	}
	recs = append(recs, "Run robotic path planning on the KUKA cell before the first structural cut.")
	return recs
}

func ensurePieces(pieces []entities.Piece) []entities.Piece {
	if pieces == nil {
		return []entities.Piece{}
	}
	return pieces
}

func ensureLines(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}

func ensureMetrics(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func ensureAssessments(m map[string]entities.DisasterAssessment) map[string]entities.DisasterAssessment {
	if m == nil {
		return map[string]entities.DisasterAssessment{}
	}
	return m
}
