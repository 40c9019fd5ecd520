// Package intake - loader.go reads submission files into ProjectSubmission.
package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
)

// YAMLLoader loads YAML submissions (.yaml, .yml).
type YAMLLoader struct{}

// NewYAMLLoader creates a new YAML submission loader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// Load reads a YAML submission from the given path.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*entities.ProjectSubmission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sub entities.ProjectSubmission
	if err := yaml.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return &sub, nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *YAMLLoader) SupportedExtensions() []string {
	return []string{".yaml", ".yml"}
}

// JSONLoader loads JSON submissions (.json).
type JSONLoader struct{}

// NewJSONLoader creates a new JSON submission loader.
func NewJSONLoader() *JSONLoader {
	return &JSONLoader{}
}

// Load reads a JSON submission from the given path.
func (l *JSONLoader) Load(ctx context.Context, path string) (*entities.ProjectSubmission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sub entities.ProjectSubmission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return &sub, nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *JSONLoader) SupportedExtensions() []string {
	return []string{".json"}
}

// MultiLoader combines the submission loaders.
type MultiLoader struct {
	loaders map[string]interface {
		Load(context.Context, string) (*entities.ProjectSubmission, error)
	}
}

// NewMultiLoader creates a loader that handles every submission format.
func NewMultiLoader() *MultiLoader {
	return &MultiLoader{
		loaders: map[string]interface {
			Load(context.Context, string) (*entities.ProjectSubmission, error)
		}{
			".yaml": NewYAMLLoader(),
			".yml":  NewYAMLLoader(),
			".json": NewJSONLoader(),
		},
	}
}

// Load dispatches to the appropriate loader based on extension.
func (m *MultiLoader) Load(ctx context.Context, path string) (*entities.ProjectSubmission, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := m.loaders[ext]
	if !ok {
		// YAML parses JSON too, so it is the safe default
		loader = NewYAMLLoader()
	}
	return loader.Load(ctx, path)
}

// SupportedExtensions returns all supported extensions.
func (m *MultiLoader) SupportedExtensions() []string {
	exts := make([]string, 0, len(m.loaders))
	for ext := range m.loaders {
		exts = append(exts, ext)
	}
	return exts
}
