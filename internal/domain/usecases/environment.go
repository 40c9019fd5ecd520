// Package usecases - environment.go estimates sound and light pollution.
package usecases

import (
	"strings"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
)

// Pollution constants. More pieces and longer transport legs raise the
// estimates, bounded so extreme manifests still report plausible levels.
const (
	noiseBaseDb           = 55.0
	noisePerPieceDb       = 0.9
	noisePerTransportChar = 0.08
	noiseTransportCapDb   = 6.0
	noiseTruckSurchargeDb = 6.0
	noiseJitterDb         = 2.0
	noiseFloorDb          = 40.0
	noiseCeilingDb        = 90.0
	peakOffsetDb          = 2.0
	peakPerPieceDb        = 0.3
	peakCeilingDb         = 95.0
	lightBaseDb           = 45.0
	densityRural          = 0.8
	densityDefault        = 1.1
	luxBase               = 300.0
	luxPerPiece           = 12.0
	luxJitterMax          = 30.0
	glareLuxDivisor       = 12.0
)

const (
	attrNoiseJitter uint64 = iota + 41
	attrLuxJitter
)

// EnvironmentalImpactEstimator derives the sound/light pollution mapping and
// the coarse pollution model exposed alongside it.
type EnvironmentalImpactEstimator struct{}

// NewEnvironmentalImpactEstimator creates an EnvironmentalImpactEstimator.
func NewEnvironmentalImpactEstimator() *EnvironmentalImpactEstimator {
	return &EnvironmentalImpactEstimator{}
}

// Estimate returns the full environmental metric mapping and the
// {light_db, noise_db} pollution model subset.
func (e *EnvironmentalImpactEstimator) Estimate(meta entities.ProjectMetadata, pieceCount int, seed uint64) (impact, pollution map[string]float64) {
	plan := strings.ToLower(meta.TransportPlan)

	transportSignal := noisePerTransportChar * float64(len(meta.TransportPlan))
	if transportSignal > noiseTransportCapDb {
		transportSignal = noiseTransportCapDb
	}

	noise := noiseBaseDb + noisePerPieceDb*float64(pieceCount) + transportSignal +
		sampleRange(seed, pieceCount, attrNoiseJitter, -noiseJitterDb, noiseJitterDb)
	if strings.Contains(plan, "truck") {
		noise += noiseTruckSurchargeDb
	}
	noise = round2(clampFloat(noise, noiseFloorDb, noiseCeilingDb))

	density := densityDefault
	if strings.Contains(strings.ToLower(meta.SiteLocation), "rural") {
		density = densityRural
	}
	light := round2(lightBaseDb * density)

	peak := noise + peakOffsetDb + peakPerPieceDb*float64(pieceCount)
	if peak > peakCeilingDb {
		peak = peakCeilingDb
	}

	lux := round2(luxBase + luxPerPiece*float64(pieceCount) + sampleRange(seed, pieceCount, attrLuxJitter, 0, luxJitterMax))

	impact = map[string]float64{
		"noise_db":              noise,
		"light_db":              light,
		"sound_peak_db":         round2(peak),
		"light_intrusion_lux":   lux,
		"nighttime_glare_index": round2(lux / glareLuxDivisor),
	}
	pollution = map[string]float64{
		"light_db": light,
		"noise_db": noise,
	}
	return impact, pollution
}
