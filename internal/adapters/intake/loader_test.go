package intake

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const yamlSubmission = `project_name: Harbor Mill
description: Brick mill slated for selective deconstruction
transport_plan: rail and conveyor
human_built: true
site_location: Rotterdam harbor district
soil_profile: soft clay over sand
hazard_profile: flood + storm surge
asset_files:
  - name: plan.ifc
    size_bytes: 2048
scan_files:
  - name: sweep.e57
    size_bytes: 4096
`

const jsonSubmission = `{
  "project_name": "Harbor Mill",
  "human_built": true,
  "asset_files": [{"name": "plan.ifc", "size_bytes": 2048}],
  "scan_files": []
}`

func TestYAMLLoader_Load(t *testing.T) {
	// Create temp file
	dir, _ := os.MkdirTemp("", "intake-test-*")
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "submission.yaml")
	os.WriteFile(path, []byte(yamlSubmission), 0644)

	loader := NewYAMLLoader()
	sub, err := loader.Load(context.Background(), path)

	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sub.ProjectName != "Harbor Mill" {
		t.Errorf("unexpected project name: %s", sub.ProjectName)
	}
	if !sub.HumanBuilt {
		t.Error("human_built should parse as true")
	}
	if len(sub.AssetFiles) != 1 || sub.AssetFiles[0].Name != "plan.ifc" {
		t.Errorf("unexpected asset files: %+v", sub.AssetFiles)
	}
	if len(sub.ScanFiles) != 1 || sub.ScanFiles[0].SizeBytes != 4096 {
		t.Errorf("unexpected scan files: %+v", sub.ScanFiles)
	}
}

func TestJSONLoader_Load(t *testing.T) {
	dir, _ := os.MkdirTemp("", "intake-test-*")
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "submission.json")
	os.WriteFile(path, []byte(jsonSubmission), 0644)

	loader := NewJSONLoader()
	sub, err := loader.Load(context.Background(), path)

	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sub.ProjectName != "Harbor Mill" {
		t.Errorf("unexpected project name: %s", sub.ProjectName)
	}
	if len(sub.AssetFiles) != 1 {
		t.Errorf("unexpected asset files: %+v", sub.AssetFiles)
	}
}

func TestLoader_MalformedSubmission(t *testing.T) {
	dir, _ := os.MkdirTemp("", "intake-test-*")
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "broken.json")
	os.WriteFile(path, []byte(`{"project_name": `), 0644)

	if _, err := NewJSONLoader().Load(context.Background(), path); err == nil {
		t.Error("should error on malformed JSON")
	}
}

func TestMultiLoader_DispatchByExtension(t *testing.T) {
	dir, _ := os.MkdirTemp("", "intake-test-*")
	defer os.RemoveAll(dir)

	yamlPath := filepath.Join(dir, "a.yml")
	jsonPath := filepath.Join(dir, "b.json")
	os.WriteFile(yamlPath, []byte(yamlSubmission), 0644)
	os.WriteFile(jsonPath, []byte(jsonSubmission), 0644)

	loader := NewMultiLoader()

	fromYAML, _ := loader.Load(context.Background(), yamlPath)
	fromJSON, _ := loader.Load(context.Background(), jsonPath)

	if fromYAML.SoilProfile != "soft clay over sand" {
		t.Error("yaml submission not loaded correctly")
	}
	if fromJSON.ProjectName != "Harbor Mill" {
		t.Error("json submission not loaded correctly")
	}
}

func TestMultiLoader_AllExtensions(t *testing.T) {
	loader := NewMultiLoader()
	exts := loader.SupportedExtensions()

	if len(exts) != 3 {
		t.Errorf("expected 3 extensions, got %d", len(exts))
	}
}

func TestLoader_NonexistentFile(t *testing.T) {
	loader := NewYAMLLoader()
	_, err := loader.Load(context.Background(), "/nonexistent/submission.yaml")

	if err == nil {
		t.Error("should error on nonexistent file")
	}
}
