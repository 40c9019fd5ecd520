// Package usecases - cost.go aggregates the money and carbon accounting.
package usecases

import (
	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
)

// CostCarbonAccountant turns total piece mass and the recycled ratio into
// the report's cost and carbon figures using fixed per-unit-mass rates.
type CostCarbonAccountant struct {
	baselineCostPerKg      float64
	salvageCreditPerKg     float64
	carbonKgPerReclaimedKg float64
	resaleValuePerKg       float64
}

// NewCostCarbonAccountant creates an accountant with the configured rates.
func NewCostCarbonAccountant(cfg EngineConfig) *CostCarbonAccountant {
	cfg = cfg.withDefaults()
	return &CostCarbonAccountant{
		baselineCostPerKg:      cfg.BaselineCostPerKg,
		salvageCreditPerKg:     cfg.SalvageCreditPerKg,
		carbonKgPerReclaimedKg: cfg.CarbonKgPerReclaimedKg,
		resaleValuePerKg:       cfg.ResaleValuePerKg,
	}
}

// Account derives the cost and carbon aggregate. Net cost is floored at zero
// and negative masses are ignored at the point of use.
func (a *CostCarbonAccountant) Account(pieces []entities.Piece, verdict entities.FeasibilityVerdict) entities.CostCarbon {
	var totalMass float64
	for _, p := range pieces {
		if p.MassKg > 0 {
			totalMass += p.MassKg
		}
	}

	ratio := clampFloat(verdict.RecycledRatio, 0, 1)
	reclaimedMass := totalMass * ratio

	baseline := totalMass * a.baselineCostPerKg
	savings := reclaimedMass * a.salvageCreditPerKg
	net := baseline - savings
	if net < 0 {
		net = 0
	}

	return entities.CostCarbon{
		BaselineCost:          round2(baseline),
		ReclaimedSavings:      round2(savings),
		NetCost:               round2(net),
		CO2SavedTons:          round2(reclaimedMass * a.carbonKgPerReclaimedKg / 1000),
		RecycledMaterialValue: round2(reclaimedMass * a.resaleValuePerKg),
	}
}
