// Package usecases - seeds.go derives the deterministic seed family for one run.
package usecases

import (
	"hash/fnv"
	"math"
	"strconv"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
)

// fieldPlaceholder substitutes for blank metadata fields so absent input
// changes nothing about the derivation path.
const fieldPlaceholder = "unspecified"

// splitmixGamma is the splitmix64 increment, reused as the per-concern offset.
const splitmixGamma = 0x9E3779B97F4A7C15

// ordinalGamma decorrelates the ordinal index inside one concern stream.
const ordinalGamma = 0xD6E8FEB86659FD93

// SeedDeriver turns metadata and the file manifest into one seed per
// downstream concern. Pure; never fails.
type SeedDeriver struct{}

// NewSeedDeriver creates a SeedDeriver.
func NewSeedDeriver() *SeedDeriver {
	return &SeedDeriver{}
}

// Derive hashes the fixed field ordering into a SeedSet. The piece seed is
// derived from metadata alone: adding uploads must extend the piece sequence
// without reshuffling pieces that already existed. The remaining concerns
// also fold in the manifest entry names.
func (d *SeedDeriver) Derive(meta entities.ProjectMetadata, manifest entities.FileManifest) entities.SeedSet {
	fields := metadataFields(meta)
	metaBase := hashFields(fields)

	for _, f := range manifest.AssetFiles {
		fields = append(fields, f.Name)
	}
	for _, f := range manifest.ScanFiles {
		fields = append(fields, f.Name)
	}
	fullBase := hashFields(fields)

	return entities.SeedSet{
		Pieces:      concernSeed(metaBase, 1),
		Hazard:      concernSeed(fullBase, 2),
		Structural:  concernSeed(fullBase, 3),
		Environment: concernSeed(fullBase, 4),
		Feasibility: concernSeed(fullBase, 5),
	}
}

// metadataFields returns the metadata text fields in their fixed hashing
// order, with placeholders substituted for blanks.
func metadataFields(meta entities.ProjectMetadata) []string {
	return []string{
		orPlaceholder(meta.ProjectName),
		orPlaceholder(meta.Description),
		orPlaceholder(meta.TransportPlan),
		strconv.FormatBool(meta.HumanBuilt),
		orPlaceholder(meta.SiteLocation),
		orPlaceholder(meta.SoilProfile),
		orPlaceholder(meta.HazardProfile),
		orPlaceholder(meta.DemolitionNotes),
		orPlaceholder(meta.LidarNotes),
	}
}

// hashFields applies FNV-64a over the fields joined by a unit separator.
func hashFields(fields []string) uint64 {
	h := fnv.New64a()
	for i, field := range fields {
		if i > 0 {
			h.Write([]byte{0x1f})
		}
		h.Write([]byte(field))
	}
	return h.Sum64()
}

// concernSeed spaces concerns along the splitmix64 sequence so two concerns
// never collide even for identical text.
func concernSeed(base uint64, concern uint64) uint64 {
	return splitmix64(base + concern*splitmixGamma)
}

// splitmix64 is the finalizer from Steele et al.'s SplitMix generator. It is
// the mixing primitive for every derived value in the pipeline.
func splitmix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// sampleUnit returns a deterministic value in [0,1) for (seed, ordinal, tag).
// Each (ordinal, tag) pair addresses an independent point in the concern's
// stream, which is what makes piece attributes prefix-stable.
func sampleUnit(seed uint64, ordinal int, tag uint64) float64 {
	h := splitmix64(seed ^ (uint64(ordinal+1) * ordinalGamma) ^ tag)
	return float64(h>>11) / float64(1<<53)
}

// sampleRange scales sampleUnit into [lo, hi).
func sampleRange(seed uint64, ordinal int, tag uint64, lo, hi float64) float64 {
	return lo + (hi-lo)*sampleUnit(seed, ordinal, tag)
}

// round2 rounds to two decimals, the precision every reported value carries.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// clampFloat bounds v to [lo, hi].
func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// orPlaceholder substitutes the fixed placeholder for blank fields.
func orPlaceholder(s string) string {
	if s == "" {
		return fieldPlaceholder
	}
	return s
}
