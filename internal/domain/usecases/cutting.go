// Package usecases - cutting.go renders per-piece robot cutting instructions.
package usecases

import (
	"fmt"
	"math"
	"strings"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
)

// Conveyor takt policy: a fixed floor plus headroom per queued piece.
const (
	conveyorTaktBaseSec     = 12
	conveyorTaktPerPieceSec = 2
)

// CuttingPlanGenerator turns pieces into ordered instruction lines plus the
// plan-level waste-reduction figure. It never mutates a piece: the waste
// number is a derived report field.
type CuttingPlanGenerator struct{}

// NewCuttingPlanGenerator creates a CuttingPlanGenerator.
func NewCuttingPlanGenerator() *CuttingPlanGenerator {
	return &CuttingPlanGenerator{}
}

// Plan generates the flat instruction list in execution order and the mean
// waste reduction across pieces. Out-of-range piece attributes are clamped at
// the point of use - this is a reporting tool, not a machine controller.
func (g *CuttingPlanGenerator) Plan(meta entities.ProjectMetadata, pieces []entities.Piece) ([]string, float64) {
	lines := make([]string, 0, len(pieces)*3+2)

	// Structures without as-built documentation get a capture pass before
	// any saw touches them.
	if !meta.HumanBuilt {
		lines = append(lines, "Run a photogrammetry pre-pass: no as-built documentation is on record for this structure.")
	}

	var wasteSum float64
	for _, p := range pieces {
		angle := clampAngle(p.OptimalCutAngle)
		score := clampFloat(p.ReuseScore, 0, 100)
		waste := clampFloat(p.WasteReduction, 0, 100)
		wasteSum += waste

		lines = append(lines,
			fmt.Sprintf("Stage %s at crane point (%.2f, %.2f, %.2f) for extraction.",
				p.PieceID, p.CenterOfMass.X, p.CenterOfMass.Y, p.CenterOfMass.Z),
			fmt.Sprintf("Use KUKA beam saw at %.1f° for %s to retain %.1f%% of volume for facade modules.",
				angle, p.PieceID, score),
			fmt.Sprintf("Verify cut faces on %s against the %.1f%% waste-reduction target before release.",
				p.PieceID, waste),
		)
	}

	if strings.Contains(strings.ToLower(meta.TransportPlan), "conveyor") {
		takt := conveyorTaktBaseSec + conveyorTaktPerPieceSec*len(pieces)
		lines = append(lines, fmt.Sprintf("Sync conveyor discharge to a %d s takt so sliced modules queue without stacking.", takt))
	}

	var meanWaste float64
	if len(pieces) > 0 {
		meanWaste = round2(wasteSum / float64(len(pieces)))
	}
	return lines, meanWaste
}

// clampAngle folds any angle into [0, 180).
func clampAngle(deg float64) float64 {
	a := math.Mod(deg, cutAngleFullSpanDeg)
	if a < 0 {
		a += cutAngleFullSpanDeg
	}
	return a
}
