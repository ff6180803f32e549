package extractor

import (
	"fmt"

	"docbench/internal/config"
	"docbench/internal/port"
)

// ProviderFactory creates a StructuredExtractor from a provider config.
type ProviderFactory func(cfg *config.ExtractorProviderConfig) (port.StructuredExtractor, error)

var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates a StructuredExtractor using the registered factory.
func NewExtractor(cfg *config.ExtractorProviderConfig) (port.StructuredExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
