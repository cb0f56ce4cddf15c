package common

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "warn", JSON: true}, "similarity-runner", &buf)

	logger.Info().Msg("dropped")
	logger.Warn().Int("nodes", 4).Msg("kept")

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &event))
	assert.Equal(t, "kept", event["message"])
	assert.Equal(t, "similarity-runner", event["service"])
	assert.EqualValues(t, 4, event["nodes"])
}

func TestNewLogger_UnknownLevel(t *testing.T) {
	logger := NewLogger(LoggingConfig{Level: "chatty"}, "x", &bytes.Buffer{})
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
