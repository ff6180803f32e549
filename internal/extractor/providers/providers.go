// Package providers registers the built-in extraction providers and builds
// the configured fallback chain.
package providers

import (
	"fmt"
	"log"

	"github.com/jonboulle/clockwork"

	"docbench/internal/config"
	"docbench/internal/extractor"
	"docbench/internal/extractor/claude"
	"docbench/internal/extractor/gemini"
	"docbench/internal/extractor/openai"
	"docbench/internal/port"
)

func init() {
	extractor.RegisterProvider("claude", func(cfg *config.ExtractorProviderConfig) (port.StructuredExtractor, error) {
		return claude.NewExtractor(cfg), nil
	})
	extractor.RegisterProvider("openai", func(cfg *config.ExtractorProviderConfig) (port.StructuredExtractor, error) {
		return openai.NewExtractor(cfg), nil
	})
	extractor.RegisterProvider("gemini", func(cfg *config.ExtractorProviderConfig) (port.StructuredExtractor, error) {
		return gemini.NewExtractor(cfg), nil
	})
}

// Build creates the primary extractor, wrapped in a FallbackExtractor when
// secondary or tertiary providers are configured. It returns nil when no
// API key is configured, leaving AI comparison disabled.
func Build(cfg *config.ExtractorConfig) (port.StructuredExtractor, error) {
	primaryCfg := cfg.PrimaryConfig()
	if primaryCfg.APIKey == "" {
		log.Printf("extractor: no API key configured, AI comparison disabled")
		return nil, nil
	}

	primary, err := extractor.NewExtractor(primaryCfg)
	if err != nil {
		return nil, fmt.Errorf("creating primary extractor: %w", err)
	}

	chain := []port.StructuredExtractor{primary}
	names := []string{primaryCfg.Provider}
	for _, tierCfg := range []*config.ExtractorProviderConfig{cfg.SecondaryConfig(), cfg.TertiaryConfig()} {
		if tierCfg == nil || tierCfg.APIKey == "" {
			continue
		}
		e, err := extractor.NewExtractor(tierCfg)
		if err != nil {
			return nil, fmt.Errorf("creating %s extractor: %w", tierCfg.Provider, err)
		}
		chain = append(chain, e)
		names = append(names, tierCfg.Provider)
	}

	if len(chain) == 1 {
		log.Printf("extractor: using %s", names[0])
		return primary, nil
	}
	log.Printf("extractor: fallback chain %v", names)
	return extractor.NewFallbackExtractor(chain, names, clockwork.NewRealClock()), nil
}
