package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"daily-brief/internal/domain/entity"
)

// SourceEntry is one configured content source.
type SourceEntry struct {
	// ID is the source identity: the page URL for newsletters, the channel
	// ID for YouTube sources.
	ID string `yaml:"id"`

	// Type selects the collector ("newsletter" or "youtube").
	Type string `yaml:"type"`
}

// SourcesConfig represents the sources configuration file.
type SourcesConfig struct {
	Sources []SourceEntry `yaml:"sources"`
}

// LoadSourcesConfig loads the source list from a YAML file.
// The path parameter is expected to come from a trusted source (command-line
// argument or hardcoded default).
func LoadSourcesConfig(path string) (*SourcesConfig, error) {
	// #nosec G304 -- path is provided by trusted source (CLI arg or config), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var config SourcesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	if err := validateSourcesConfig(&config); err != nil {
		return nil, fmt.Errorf("sources validation failed: %w", err)
	}

	return &config, nil
}

func validateSourcesConfig(config *SourcesConfig) error {
	if len(config.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	seen := make(map[string]struct{}, len(config.Sources))
	for i, s := range config.Sources {
		if s.ID == "" {
			return fmt.Errorf("source %d: id is required", i)
		}
		if !entity.SourceType(s.Type).Valid() {
			return fmt.Errorf("source %q: unknown type %q", s.ID, s.Type)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("source %q: duplicate id", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// SourceType returns the entry's type as a domain value. Call only after
// validation.
func (s SourceEntry) SourceType() entity.SourceType {
	return entity.SourceType(s.Type)
}
