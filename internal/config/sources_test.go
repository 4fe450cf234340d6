package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"daily-brief/internal/domain/entity"
)

func TestLoadSourcesConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "sources-config-test")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	tests := []struct {
		name        string
		configYAML  string
		expectError bool
		errorMsg    string
		validate    func(*testing.T, *SourcesConfig)
	}{
		{
			name: "valid config",
			configYAML: `sources:
  - id: "https://example.com/newsletter"
    type: "newsletter"
  - id: "UCabc123"
    type: "youtube"
`,
			expectError: false,
			validate: func(t *testing.T, config *SourcesConfig) {
				if len(config.Sources) != 2 {
					t.Fatalf("expected 2 sources, got %d", len(config.Sources))
				}
				if config.Sources[0].ID != "https://example.com/newsletter" {
					t.Errorf("unexpected id %q", config.Sources[0].ID)
				}
				if config.Sources[0].SourceType() != entity.SourceTypeNewsletter {
					t.Errorf("expected newsletter type, got %q", config.Sources[0].Type)
				}
				if config.Sources[1].SourceType() != entity.SourceTypeYouTube {
					t.Errorf("expected youtube type, got %q", config.Sources[1].Type)
				}
			},
		},
		{
			name:        "empty source list",
			configYAML:  "sources: []\n",
			expectError: true,
			errorMsg:    "at least one source is required",
		},
		{
			name: "missing id",
			configYAML: `sources:
  - type: "newsletter"
`,
			expectError: true,
			errorMsg:    "id is required",
		},
		{
			name: "unknown type",
			configYAML: `sources:
  - id: "https://example.com/feed"
    type: "podcast"
`,
			expectError: true,
			errorMsg:    "unknown type",
		},
		{
			name: "duplicate id",
			configYAML: `sources:
  - id: "UCabc123"
    type: "youtube"
  - id: "UCabc123"
    type: "youtube"
`,
			expectError: true,
			errorMsg:    "duplicate id",
		},
		{
			name:        "invalid yaml",
			configYAML:  "sources: [not: valid: yaml\n",
			expectError: true,
			errorMsg:    "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, strings.ReplaceAll(tt.name, " ", "-")+".yaml")
			if err := os.WriteFile(path, []byte(tt.configYAML), 0o600); err != nil {
				t.Fatal(err)
			}

			config, err := LoadSourcesConfig(path)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("error = %q, want it to contain %q", err, tt.errorMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, config)
			}
		})
	}
}

func TestLoadSourcesConfig_MissingFile(t *testing.T) {
	_, err := LoadSourcesConfig("/nonexistent/sources.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error = %q", err)
	}
}
