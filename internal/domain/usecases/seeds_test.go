package usecases

import (
	"testing"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
)

func metaFixture() entities.ProjectMetadata {
	return entities.ProjectMetadata{
		ProjectName:     "Circular Habitat Test",
		Description:     "Mid-rise concrete frame with brick infill slated for selective deconstruction.",
		TransportPlan:   "rail and conveyor",
		HumanBuilt:      true,
		SiteLocation:    "Rotterdam harbor district",
		SoilProfile:     "soft clay over sand",
		HazardProfile:   "Flood + storm surge",
		DemolitionNotes: "brick facade, steel frame, adaptive roof",
		LidarNotes:      "LiDAR sweep at 5mm resolution",
	}
}

func manifestFixture(assets, scans int) entities.FileManifest {
	m := entities.FileManifest{}
	for i := 0; i < assets; i++ {
		m.AssetFiles = append(m.AssetFiles, entities.FileMeta{Name: "asset.ifc", SizeBytes: int64(1000 + i)})
	}
	for i := 0; i < scans; i++ {
		m.ScanFiles = append(m.ScanFiles, entities.FileMeta{Name: "scan.e57", SizeBytes: int64(9000 + i)})
	}
	return m
}

func TestSeedDeriver_Deterministic(t *testing.T) {
	d := NewSeedDeriver()
	meta := metaFixture()
	manifest := manifestFixture(3, 1)

	a := d.Derive(meta, manifest)
	b := d.Derive(meta, manifest)

	if a != b {
		t.Errorf("expected identical seed sets, got %+v vs %+v", a, b)
	}
}

func TestSeedDeriver_ConcernsDiffer(t *testing.T) {
	d := NewSeedDeriver()
	s := d.Derive(metaFixture(), manifestFixture(2, 2))

	seen := map[uint64]string{}
	for name, v := range map[string]uint64{
		"pieces":      s.Pieces,
		"hazard":      s.Hazard,
		"structural":  s.Structural,
		"environment": s.Environment,
		"feasibility": s.Feasibility,
	} {
		if prev, ok := seen[v]; ok {
			t.Errorf("concern seeds collided: %s and %s both %d", prev, name, v)
		}
		seen[v] = name
	}
}

func TestSeedDeriver_BlankFieldsUsePlaceholder(t *testing.T) {
	d := NewSeedDeriver()

	blank := d.Derive(entities.ProjectMetadata{}, entities.FileManifest{})
	placeholder := d.Derive(entities.ProjectMetadata{
		ProjectName:     "unspecified",
		Description:     "unspecified",
		TransportPlan:   "unspecified",
		SiteLocation:    "unspecified",
		SoilProfile:     "unspecified",
		HazardProfile:   "unspecified",
		DemolitionNotes: "unspecified",
		LidarNotes:      "unspecified",
	}, entities.FileManifest{})

	if blank != placeholder {
		t.Error("blank fields should hash identically to the placeholder text")
	}
}

func TestSeedDeriver_PieceSeedIgnoresManifest(t *testing.T) {
	d := NewSeedDeriver()
	meta := metaFixture()

	small := d.Derive(meta, manifestFixture(1, 0))
	large := d.Derive(meta, manifestFixture(7, 3))

	if small.Pieces != large.Pieces {
		t.Error("piece seed must not move when the manifest grows")
	}
	if small.Hazard == large.Hazard {
		t.Error("hazard seed should fold in manifest entry names")
	}
}

func TestSeedDeriver_MetadataChangesMoveSeeds(t *testing.T) {
	d := NewSeedDeriver()
	manifest := manifestFixture(2, 1)

	base := d.Derive(metaFixture(), manifest)

	flipped := metaFixture()
	flipped.HumanBuilt = false
	other := d.Derive(flipped, manifest)

	if base.Pieces == other.Pieces {
		t.Error("flipping human_built should move the piece seed")
	}
}

func TestSampleUnit_Bounds(t *testing.T) {
	seed := NewSeedDeriver().Derive(metaFixture(), entities.FileManifest{}).Pieces
	for i := 0; i < 200; i++ {
		v := sampleUnit(seed, i, attrMass)
		if v < 0 || v >= 1 {
			t.Fatalf("sample %d out of [0,1): %f", i, v)
		}
	}
}
