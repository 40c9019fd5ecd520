// Package usecases - structural.go derives the named structural metrics.
package usecases

import (
	"math"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
)

// Structural metric constants.
const (
	stressMassFactor     = 0.85
	safetyFactorScale    = 1.5
	safetyFactorEpsilon  = 1e-3
	vibrationStddevScale = 0.25
	undocumentedPenalty  = 5.0
)

const (
	attrLoadFactor uint64 = iota + 11
	attrShearMargin
	attrIntegrity
)

// StructuralAnalyzer derives named structural metrics from metadata and the
// piece sequence. The seeded metrics fold in text-length signals from the
// soil and hazard descriptions so the output tracks the input's shape while
// staying a pure function.
type StructuralAnalyzer struct{}

// NewStructuralAnalyzer creates a StructuralAnalyzer.
func NewStructuralAnalyzer() *StructuralAnalyzer {
	return &StructuralAnalyzer{}
}

// Analyze returns the structural metric mapping. Total over any input shape:
// an empty piece sequence degrades to zeroed mass statistics.
func (a *StructuralAnalyzer) Analyze(meta entities.ProjectMetadata, pieces []entities.Piece, seed uint64) map[string]float64 {
	mean, stddev := massStats(pieces)
	stress, safety := globalStressAndSafety(pieces)

	textSignal := len(meta.SoilProfile) + len(meta.HazardProfile)

	integrity := sampleRange(seed, len(pieces)+textSignal, attrIntegrity, 60, 95)
	if !meta.HumanBuilt {
		integrity -= undocumentedPenalty
	}

	return map[string]float64{
		"mean_piece_mass":     round2(mean),
		"global_stress_index": round2(stress),
		"safety_factor":       round2(safety),
		"vibration_risk":      round2(vibrationStddevScale * stddev),
		"load_factor":         round2(sampleRange(seed, len(pieces), attrLoadFactor, 1.0, 1.8)),
		"shear_margin_pct":    round2(sampleRange(seed, textSignal, attrShearMargin, 15, 35)),
		"integrity_rating":    round2(integrity),
	}
}

// massStats returns the mean and population standard deviation of the piece
// masses. Both are zero for an empty sequence.
func massStats(pieces []entities.Piece) (mean, stddev float64) {
	if len(pieces) == 0 {
		return 0, 0
	}
	var sum float64
	for _, p := range pieces {
		sum += p.MassKg
	}
	mean = sum / float64(len(pieces))

	var sq float64
	for _, p := range pieces {
		d := p.MassKg - mean
		sq += d * d
	}
	stddev = math.Sqrt(sq / float64(len(pieces)))
	return mean, stddev
}

// globalStressAndSafety derives the two global scalars shared with the
// finite-element table. Kept as a free function so the estimator recomputes
// them without a data dependency on this stage's output map.
func globalStressAndSafety(pieces []entities.Piece) (stress, safety float64) {
	n := len(pieces)
	if n == 0 {
		n = 1
	}
	mean, _ := massStats(pieces)
	stress = stressMassFactor * mean / float64(n)
	safety = safetyFactorScale * 100 / (stress + safetyFactorEpsilon)
	return stress, safety
}
