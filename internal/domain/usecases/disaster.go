// Package usecases - disaster.go simulates hazard severities from declared risk text.
package usecases

import (
	"strings"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
)

// Severity bands. A matched keyword lifts the category into the elevated
// band; unmatched categories still carry a small non-zero background value.
const (
	severityBackgroundLo = 0.08
	severityBackgroundHi = 0.45
	severityElevatedLo   = 0.55
	severityElevatedHi   = 0.95
)

const (
	attrSeverityBackground uint64 = iota + 31
	attrSeverityElevated
)

// hazardCategory is one row of the fixed category table. Core categories are
// always reported; declared-only categories appear when a keyword matches.
type hazardCategory struct {
	name     string
	ordinal  int
	keywords []string
	core     bool
	baseline string
	elevated string
}

// hazardCategories is evaluated in order so the mapping's composition is
// stable for identical input.
var hazardCategories = []hazardCategory{
	{
		name:     "flood",
		ordinal:  0,
		keywords: []string{"flood", "surge", "tsunami"},
		core:     true,
		baseline: "No flood exposure declared. Keep reclaimed material staging above grade as routine practice.",
		elevated: "Flood exposure declared. Elevate salvage staging, seal reclaimed electrical stock, and schedule cuts outside surge windows.",
	},
	{
		name:     "wind",
		ordinal:  1,
		keywords: []string{"storm", "hurricane", "wind", "cyclone", "typhoon"},
		core:     true,
		baseline: "No wind exposure declared. Standard sheeting is sufficient for open salvage stacks.",
		elevated: "Wind exposure declared. Strap salvage stacks below 1.5 m and halt crane lifts above declared gust thresholds.",
	},
	{
		name:     "seismic",
		ordinal:  2,
		keywords: []string{"seismic", "earthquake", "quake", "fault", "liquefaction"},
		core:     true,
		baseline: "No seismic exposure declared. Conventional shoring covers the deconstruction sequence.",
		elevated: "Seismic exposure declared. Brace partially cut bays immediately and keep no piece suspended between shifts.",
	},
	{
		name:     "wildfire",
		ordinal:  3,
		keywords: []string{"wildfire", "bushfire"},
		baseline: "",
		elevated: "Wildfire exposure declared. Clear combustible salvage from the perimeter and keep timber stock wetted down.",
	},
	{
		name:     "landslide",
		ordinal:  4,
		keywords: []string{"landslide", "mudslide", "slope failure"},
		baseline: "",
		elevated: "Landslide exposure declared. Stage heavy pieces off the downslope edge and monitor pore pressure during excavation.",
	},
}

// DisasterSimulator maps declared hazards to severity assessments. Keyword
// matching is case-insensitive substring search over the hazard, soil, and
// location text - deterministic, no external NLP.
type DisasterSimulator struct{}

// NewDisasterSimulator creates a DisasterSimulator.
func NewDisasterSimulator() *DisasterSimulator {
	return &DisasterSimulator{}
}

// Simulate returns the category-to-assessment mapping for the run.
func (s *DisasterSimulator) Simulate(meta entities.ProjectMetadata, seed uint64) map[string]entities.DisasterAssessment {
	text := strings.ToLower(meta.HazardProfile + " " + meta.SoilProfile + " " + meta.SiteLocation)

	out := make(map[string]entities.DisasterAssessment, len(hazardCategories))
	for _, cat := range hazardCategories {
		matched := matchesAny(text, cat.keywords)
		if !cat.core && !matched {
			continue
		}

		if matched {
			out[cat.name] = entities.DisasterAssessment{
				Severity: round2(sampleRange(seed, cat.ordinal, attrSeverityElevated, severityElevatedLo, severityElevatedHi)),
				Advisory: cat.elevated,
			}
			continue
		}
		out[cat.name] = entities.DisasterAssessment{
			Severity: round2(sampleRange(seed, cat.ordinal, attrSeverityBackground, severityBackgroundLo, severityBackgroundHi)),
			Advisory: cat.baseline,
		}
	}
	return out
}

// matchesAny reports whether any keyword occurs in the lowered text.
func matchesAny(loweredText string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(loweredText, kw) {
			return true
		}
	}
	return false
}
