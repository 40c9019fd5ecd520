// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
// They contain NO framework code, NO external dependencies - just pure business logic.
package usecases

// EngineConfig holds the bound constants of the analysis pipeline. Every
// limit and per-unit rate lives here instead of in ambient globals so a run
// is a pure function of (metadata, manifest, config).
type EngineConfig struct {
	// Piece count policy.
	MinPieces       int `yaml:"min_pieces"`
	MaxPieces       int `yaml:"max_pieces"`
	ScanPieceWeight int `yaml:"scan_piece_weight"`

	// Synthetic finite-element table size. Fixed, never data-dependent.
	FEANodeCount int `yaml:"fea_node_count"`

	// Per-unit-mass accounting rates.
	BaselineCostPerKg      float64 `yaml:"baseline_cost_per_kg"`
	SalvageCreditPerKg     float64 `yaml:"salvage_credit_per_kg"`
	CarbonKgPerReclaimedKg float64 `yaml:"carbon_kg_per_reclaimed_kg"`
	ResaleValuePerKg       float64 `yaml:"resale_value_per_kg"`

	// Reuse percentage clamps.
	ReusedPctCap  float64 `yaml:"reused_pct_cap"`
	RoofNewPctCap float64 `yaml:"roof_new_pct_cap"`
}

// DefaultEngineConfig returns the documented default constants.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MinPieces:              3,
		MaxPieces:              12,
		ScanPieceWeight:        2,
		FEANodeCount:           16,
		BaselineCostPerKg:      175.0,
		SalvageCreditPerKg:     140.0,
		CarbonKgPerReclaimedKg: 1.8,
		ResaleValuePerKg:       9.5,
		ReusedPctCap:           95.0,
		RoofNewPctCap:          30.0,
	}
}

// withDefaults fills unset or unusable fields with the documented defaults.
func (c EngineConfig) withDefaults() EngineConfig {
	def := DefaultEngineConfig()
	if c.MinPieces <= 0 {
		c.MinPieces = def.MinPieces
	}
	if c.MaxPieces < c.MinPieces {
		c.MaxPieces = def.MaxPieces
		if c.MaxPieces < c.MinPieces {
			c.MaxPieces = c.MinPieces
		}
	}
	if c.ScanPieceWeight <= 0 {
		c.ScanPieceWeight = def.ScanPieceWeight
	}
	if c.FEANodeCount < 2 {
		c.FEANodeCount = def.FEANodeCount
	}
	if c.BaselineCostPerKg <= 0 {
		c.BaselineCostPerKg = def.BaselineCostPerKg
	}
	if c.SalvageCreditPerKg <= 0 {
		c.SalvageCreditPerKg = def.SalvageCreditPerKg
	}
	if c.CarbonKgPerReclaimedKg <= 0 {
		c.CarbonKgPerReclaimedKg = def.CarbonKgPerReclaimedKg
	}
	if c.ResaleValuePerKg <= 0 {
		c.ResaleValuePerKg = def.ResaleValuePerKg
	}
	if c.ReusedPctCap <= 0 || c.ReusedPctCap > 100 {
		c.ReusedPctCap = def.ReusedPctCap
	}
	if c.RoofNewPctCap <= 0 || c.RoofNewPctCap > 100 {
		c.RoofNewPctCap = def.RoofNewPctCap
	}
	return c
}
