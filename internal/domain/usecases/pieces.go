// Package usecases - pieces.go decomposes the upload manifest into salvageable pieces.
package usecases

import (
	"fmt"
	"math"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
)

// Piece attribute constants. Masses follow a slow sine swell along the piece
// sequence so the synthetic structure reads as a real load distribution.
const (
	massBaseKg          = 120.0
	massWaveKg          = 20.0
	massJitterKg        = 15.0
	massFloorKg         = 1.0
	comXStepM           = 0.5
	comXJitterM         = 0.25
	comYMinM            = 0.1
	comYMaxM            = 4.0
	comZJitterM         = 0.5
	cutAngleStepDeg     = 17.5
	cutAngleFullSpanDeg = 180.0
	wasteBasePct        = 15.0
	wasteSpreadPct      = 25.0
	scoreBase           = 50.0
	scoreLowDelta       = -10.0
	scoreHighDelta      = 30.0
)

// Attribute tags address independent points in the piece seed's stream.
const (
	attrMass uint64 = iota + 1
	attrComX
	attrComY
	attrComZ
	attrWaste
	attrScore
)

// PieceDecomposer turns file counts into the ordered piece sequence.
// Single Responsibility: Only piece generation.
type PieceDecomposer struct {
	minPieces  int
	maxPieces  int
	scanWeight int
}

// NewPieceDecomposer creates a PieceDecomposer with the configured count policy.
func NewPieceDecomposer(cfg EngineConfig) *PieceDecomposer {
	cfg = cfg.withDefaults()
	return &PieceDecomposer{
		minPieces:  cfg.MinPieces,
		maxPieces:  cfg.MaxPieces,
		scanWeight: cfg.ScanPieceWeight,
	}
}

// Decompose derives the piece sequence for the given upload counts. Zero
// files still yield the minimum piece count so downstream stages never see an
// empty sequence. Attributes depend only on (seed, ordinal): growing the
// manifest appends trailing pieces without touching earlier ones.
func (d *PieceDecomposer) Decompose(seeds entities.SeedSet, assetCount, scanCount int) []entities.Piece {
	count := d.pieceCount(assetCount, scanCount)

	pieces := make([]entities.Piece, 0, count)
	for i := 0; i < count; i++ {
		pieces = append(pieces, d.derivePiece(seeds.Pieces, i))
	}
	return pieces
}

// pieceCount applies the count policy: one piece per asset (at least the
// minimum), two per scan, bounded so huge uploads keep the report small.
func (d *PieceDecomposer) pieceCount(assetCount, scanCount int) int {
	if assetCount < 0 {
		assetCount = 0
	}
	if scanCount < 0 {
		scanCount = 0
	}
	base := assetCount
	if base < d.minPieces {
		base = d.minPieces
	}
	count := base + d.scanWeight*scanCount
	if count > d.maxPieces {
		count = d.maxPieces
	}
	if count < d.minPieces {
		count = d.minPieces
	}
	return count
}

// derivePiece computes one piece's attributes from the seed and its ordinal.
func (d *PieceDecomposer) derivePiece(seed uint64, i int) entities.Piece {
	fi := float64(i)

	mass := massBaseKg + massWaveKg*math.Sin(fi) + sampleRange(seed, i, attrMass, -massJitterKg, massJitterKg)
	if mass < massFloorKg {
		mass = massFloorKg
	}

	return entities.Piece{
		PieceID: fmt.Sprintf("piece_%d", i+1),
		MassKg:  round2(mass),
		CenterOfMass: entities.Coordinate{
			X: round2(comXStepM*fi + sampleRange(seed, i, attrComX, -comXJitterM, comXJitterM)),
			Y: round2(sampleRange(seed, i, attrComY, comYMinM, comYMaxM)),
			Z: round2(sampleRange(seed, i, attrComZ, -comZJitterM, comZJitterM)),
		},
		OptimalCutAngle: round2(math.Mod(fi*cutAngleStepDeg, cutAngleFullSpanDeg)),
		WasteReduction:  round2(wasteBasePct + sampleRange(seed, i, attrWaste, 0, wasteSpreadPct)),
		ReuseScore:      round2(scoreBase + sampleRange(seed, i, attrScore, scoreLowDelta, scoreHighDelta)),
	}
}
