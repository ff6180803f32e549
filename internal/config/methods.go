package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"docbench/internal/domain"
)

// DefaultMethods is the built-in method catalog in benchmark order.
func DefaultMethods() []domain.MethodConfig {
	return []domain.MethodConfig{
		{
			Name:   domain.MethodBasic,
			Label:  "Basic",
			Config: map[string]any{"parser": "default"},
		},
		{
			Name:  domain.MethodVision,
			Label: "Vision transcription",
			Config: map[string]any{
				"parser":     "vision",
				"transcribe": true,
			},
		},
		{
			Name:  domain.MethodAgentic,
			Label: "Agentic",
			Config: map[string]any{
				"parser":  "agentic",
				"agentic": true,
			},
		},
	}
}

type methodsFile struct {
	Methods []domain.MethodConfig `yaml:"methods"`
}

// LoadMethods reads the method catalog from a YAML file. An empty path
// returns DefaultMethods. The file overrides labels and indexing configs;
// names must come from domain.KnownMethods and appear once each.
func LoadMethods(path string) ([]domain.MethodConfig, error) {
	if path == "" {
		return DefaultMethods(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading methods file: %w", err)
	}

	var file methodsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing methods file: %w", err)
	}
	if err := ValidateMethods(file.Methods); err != nil {
		return nil, err
	}
	return file.Methods, nil
}

// ValidateMethods checks a catalog for empty, unknown, or duplicate names.
func ValidateMethods(methods []domain.MethodConfig) error {
	if len(methods) == 0 {
		return fmt.Errorf("method catalog is empty")
	}
	seen := make(map[string]bool, len(methods))
	for _, m := range methods {
		if m.Name == "" {
			return fmt.Errorf("method catalog entry has no name")
		}
		if !slices.Contains(domain.KnownMethods, m.Name) {
			return fmt.Errorf("%w: %s", domain.ErrUnknownMethod, m.Name)
		}
		if seen[m.Name] {
			return fmt.Errorf("method %q listed twice", m.Name)
		}
		seen[m.Name] = true
	}
	return nil
}
