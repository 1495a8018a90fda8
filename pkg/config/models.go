package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mindsparkle/docintel/pkg/catalog"
)

// ModelsFile represents a models.yaml override file. When present it
// replaces the builtin model catalog entirely, so fallback chains must
// resolve within the file.
type ModelsFile struct {
	Models []catalog.ModelConfig `yaml:"models"`
}

// LoadModelsFile reads a model catalog from a YAML file and validates
// it the same way the builtin catalog is validated.
func LoadModelsFile(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file ModelsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse models file: %w", err)
	}
	if len(file.Models) == 0 {
		return nil, fmt.Errorf("models file defines no models")
	}

	cat, err := catalog.New(file.Models)
	if err != nil {
		return nil, fmt.Errorf("invalid model catalog: %w", err)
	}
	return cat, nil
}
