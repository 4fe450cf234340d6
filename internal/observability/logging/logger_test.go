package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewLogger tests the creation of a new JSON logger
func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{
			name:     "default log level (info)",
			logLevel: "",
		},
		{
			name:     "debug log level",
			logLevel: "debug",
		},
		{
			name:     "warn log level",
			logLevel: "warn",
		},
		{
			name:     "invalid log level defaults to info",
			logLevel: "invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.logLevel != "" {
				os.Setenv("LOG_LEVEL", tt.logLevel)
				defer os.Unsetenv("LOG_LEVEL")
			}

			logger := NewLogger()

			assert.NotNil(t, logger, "logger should not be nil")
		})
	}
}

// TestNewTextLogger tests the creation of a new text logger
func TestNewTextLogger(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{
			name:     "default log level",
			logLevel: "",
		},
		{
			name:     "debug log level",
			logLevel: "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.logLevel != "" {
				os.Setenv("LOG_LEVEL", tt.logLevel)
				defer os.Unsetenv("LOG_LEVEL")
			}

			logger := NewTextLogger()

			assert.NotNil(t, logger, "logger should not be nil")
		})
	}
}

// TestLevelFromEnv tests the LOG_LEVEL parsing
func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		value    string
		expected slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("LOG_LEVEL="+tt.value, func(t *testing.T) {
			if tt.value != "" {
				os.Setenv("LOG_LEVEL", tt.value)
				defer os.Unsetenv("LOG_LEVEL")
			}

			assert.Equal(t, tt.expected, levelFromEnv())
		})
	}
}

// TestWithFields tests adding structured fields to a logger
func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	logger := WithFields(base, map[string]interface{}{
		"source_id":   "https://example.com/news",
		"source_type": "newsletter",
	})
	logger.Info("collecting")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "https://example.com/news", entry["source_id"])
	assert.Equal(t, "newsletter", entry["source_type"])
	assert.Equal(t, "collecting", entry["msg"])
}

// TestFromContext tests logger retrieval from context
func TestFromContext(t *testing.T) {
	t.Run("logger present in context", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		ctx := WithLogger(context.Background(), logger)

		got := FromContext(ctx)

		assert.Same(t, logger, got)
	})

	t.Run("logger absent falls back to default", func(t *testing.T) {
		got := FromContext(context.Background())

		assert.Same(t, slog.Default(), got)
	})
}
