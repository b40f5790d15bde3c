package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/axellelanca/shortlinks/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info", Format: "json", Output: &buf})

	log.Info("link created", "shortcode", "abc123")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "link created", entry["msg"])
	assert.Equal(t, "abc123", entry["shortcode"])
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "warn", Format: "text", Output: &buf})

	log.Info("ignored")
	log.Debug("ignored too")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}
