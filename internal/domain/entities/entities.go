// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import (
	"strings"
	"time"
)

// ProjectMetadata is the immutable record of submitted text fields describing
// one demolition/reuse project. Every field is optional: blank values degrade
// to fixed placeholders inside the pipeline, they never fail.
type ProjectMetadata struct {
	ProjectName     string
	Description     string
	TransportPlan   string
	HumanBuilt      bool
	SiteLocation    string
	SoilProfile     string
	HazardProfile   string
	DemolitionNotes string
	LidarNotes      string
}

// FileMeta describes one uploaded file. Only the name and byte length
// participate in derivation - content bytes never reach the core.
type FileMeta struct {
	Name      string `json:"name" yaml:"name"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
}

// FileManifest holds the two ordered upload lists (asset files, scan files).
type FileManifest struct {
	AssetFiles []FileMeta `json:"asset_files" yaml:"asset_files"`
	ScanFiles  []FileMeta `json:"scan_files" yaml:"scan_files"`
}

// AssetCount returns the number of uploaded asset files.
func (m FileManifest) AssetCount() int { return len(m.AssetFiles) }

// ScanCount returns the number of uploaded scan files.
func (m FileManifest) ScanCount() int { return len(m.ScanFiles) }

// SeedSet carries one deterministic seed per downstream concern so that the
// stages vary independently instead of producing visibly correlated numbers.
// A SeedSet is owned by a single pipeline run and is never persisted.
type SeedSet struct {
	Pieces      uint64
	Hazard      uint64
	Structural  uint64
	Environment uint64
	Feasibility uint64
}

// Coordinate is a center-of-mass position in meters.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Piece is one salvageable unit decomposed from the uploads.
// Pieces are created once by the decomposer and are read-only afterwards.
type Piece struct {
	PieceID         string     `json:"piece_id"`
	MassKg          float64    `json:"mass_kg"`
	CenterOfMass    Coordinate `json:"center_of_mass"`
	OptimalCutAngle float64    `json:"optimal_cut_angle"`
	WasteReduction  float64    `json:"waste_reduction"`
	ReuseScore      float64    `json:"reuse_score"`
}

// ReuseBreakdown is the percentage view of how much structure can be
// reclaimed. CuttingWasteReductionPct is the plan-level figure derived by the
// cutting stage (it is a report field, never a Piece mutation).
type ReuseBreakdown struct {
	ReusedPct                float64 `json:"reused_pct"`
	NewPct                   float64 `json:"new_pct"`
	RoofNewPct               float64 `json:"roof_new_pct"`
	ReclaimedVolumeM3        float64 `json:"reclaimed_volume_m3"`
	CuttingWasteReductionPct float64 `json:"cutting_waste_reduction_pct"`
}

// FeasibilityVerdict classifies named building components into reusable vs.
// needs-new sets and carries the suggested plan adjustments.
type FeasibilityVerdict struct {
	ReusableComponents   []string `json:"reusable_components"`
	NeedsNewComponents   []string `json:"needs_new_components"`
	SuggestedPlanChanges []string `json:"suggested_plan_changes"`
	RecycledRatio        float64  `json:"recycled_ratio"`
	RoofNewPct           float64  `json:"roof_new_pct"`
}

// DisasterAssessment is one hazard category's simulated outcome. Severity is
// in (0,1]; the advisory is a fixed templated string.
type DisasterAssessment struct {
	Severity float64 `json:"severity"`
	Advisory string  `json:"advisory"`
}

// FEANode is one synthetic node entry in the finite-element table.
type FEANode struct {
	Node           string  `json:"node"`
	StressIndex    float64 `json:"stress_index"`
	DisplacementMM float64 `json:"displacement_mm"`
	UtilizationPct float64 `json:"utilization_pct"`
}

// FiniteElementAnalysis is the fixed-size synthetic node table plus its
// summary values. The table size is a configuration constant, never
// data-dependent.
type FiniteElementAnalysis struct {
	NodeCount            int       `json:"node_count"`
	CriticalNode         string    `json:"critical_node"`
	MaxDisplacementMM    float64   `json:"max_displacement_mm"`
	StressUtilizationPct float64   `json:"stress_utilization_pct"`
	Nodes                []FEANode `json:"nodes"`
}

// CostCarbon aggregates the money and carbon accounting. All values derive
// from fixed per-unit-mass constants so the accounting is auditable.
type CostCarbon struct {
	BaselineCost          float64 `json:"baseline_cost"`
	ReclaimedSavings      float64 `json:"reclaimed_savings"`
	NetCost               float64 `json:"net_cost"`
	CO2SavedTons          float64 `json:"co2_saved_tons"`
	RecycledMaterialValue float64 `json:"recycled_material_value"`
}

// Report is the terminal aggregate returned by one pipeline run.
// Field names are the wire contract consumed by the rendering collaborator
// and must be preserved exactly. Metric maps are always non-nil so empty
// results serialize as empty mappings, never as omitted keys.
type Report struct {
	ProjectName           string                        `json:"project_name"`
	Summary               string                        `json:"summary"`
	PiecePlans            []Piece                       `json:"piece_plans"`
	CuttingInstructions   []string                      `json:"cutting_instructions"`
	ReuseBreakdown        ReuseBreakdown                `json:"reuse_breakdown"`
	DisasterSimulation    map[string]DisasterAssessment `json:"disaster_simulation"`
	PollutionModel        map[string]float64            `json:"pollution_model"`
	EnvironmentalImpact   map[string]float64            `json:"environmental_impact"`
	StructuralAnalysis    map[string]float64            `json:"structural_analysis"`
	FiniteElementAnalysis FiniteElementAnalysis         `json:"finite_element_analysis"`
	CostAndCarbon         CostCarbon                    `json:"cost_and_carbon"`
	Recommendations       []string                      `json:"recommendations"`
	MaterialFeasibility   FeasibilityVerdict            `json:"material_feasibility"`
	AIEngineering         string                        `json:"ai_engineering"`
}

// ProjectSubmission is the on-disk form of one project's inputs, consumed by
// the intake watcher, the CLI, and the JSON variant of the process endpoint.
type ProjectSubmission struct {
	ProjectName     string     `json:"project_name" yaml:"project_name"`
	Description     string     `json:"description" yaml:"description"`
	TransportPlan   string     `json:"transport_plan" yaml:"transport_plan"`
	HumanBuilt      bool       `json:"human_built" yaml:"human_built"`
	SiteLocation    string     `json:"site_location" yaml:"site_location"`
	SoilProfile     string     `json:"soil_profile" yaml:"soil_profile"`
	HazardProfile   string     `json:"hazard_profile" yaml:"hazard_profile"`
	DemolitionNotes string     `json:"demolition_notes" yaml:"demolition_notes"`
	LidarNotes      string     `json:"lidar_notes" yaml:"lidar_notes"`
	AssetFiles      []FileMeta `json:"asset_files" yaml:"asset_files"`
	ScanFiles       []FileMeta `json:"scan_files" yaml:"scan_files"`
}

// Inputs converts the submission into the pipeline's input pair.
func (s ProjectSubmission) Inputs() (ProjectMetadata, FileManifest) {
	meta := ProjectMetadata{
		ProjectName:     s.ProjectName,
		Description:     s.Description,
		TransportPlan:   s.TransportPlan,
		HumanBuilt:      s.HumanBuilt,
		SiteLocation:    s.SiteLocation,
		SoilProfile:     s.SoilProfile,
		HazardProfile:   s.HazardProfile,
		DemolitionNotes: s.DemolitionNotes,
		LidarNotes:      s.LidarNotes,
	}
	manifest := FileManifest{AssetFiles: s.AssetFiles, ScanFiles: s.ScanFiles}
	return meta, manifest
}

// ReportRecord is the archive envelope around one stored report. The ID and
// timestamp are storage metadata and sit outside the deterministic report
// contract.
type ReportRecord struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"project_name"`
	CreatedAt   time.Time `json:"created_at"`
	Report      *Report   `json:"report"`
}

// ReportSummary is the archive listing row.
type ReportSummary struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"project_name"`
	CreatedAt   time.Time `json:"created_at"`
	PieceCount  int       `json:"piece_count"`
	ReusedPct   float64   `json:"reused_pct"`
}

// ParseBoolFlag parses the textual boolean accepted at the upload boundary.
// "true", "1" and "yes" (any case, surrounding space ignored) are true;
// everything else, including the empty string, is false.
func ParseBoolFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
