package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobal restores zerolog process-wide state after a test, since Setup
// mutates the global level by design.
func resetGlobal(t *testing.T) {
	t.Helper()
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
}

// TestSetup_VerbosityLevels verifies the verbosity → level mapping.
func TestSetup_VerbosityLevels(t *testing.T) {
	tests := []struct {
		verbosity int
		expected  zerolog.Level
	}{
		{verbosity: 0, expected: zerolog.WarnLevel},
		{verbosity: 1, expected: zerolog.InfoLevel},
		{verbosity: 2, expected: zerolog.DebugLevel},
		{verbosity: 3, expected: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		resetGlobal(t)
		l, err := Setup(tt.verbosity, FormatJSON, &bytes.Buffer{})
		require.NoError(t, err, "verbosity %d", tt.verbosity)
		require.NotNil(t, l)
		assert.Equal(t, tt.expected, zerolog.GlobalLevel(), "verbosity %d", tt.verbosity)
	}
}

// TestSetup_RejectsUnknownVerbosity verifies there is no fifth mapping.
func TestSetup_RejectsUnknownVerbosity(t *testing.T) {
	resetGlobal(t)
	for _, v := range []int{-1, 4, 100} {
		_, err := Setup(v, FormatJSON, &bytes.Buffer{})
		require.Error(t, err, "verbosity %d", v)
	}
}

// TestSetup_RejectsUnknownFormat verifies format validation.
func TestSetup_RejectsUnknownFormat(t *testing.T) {
	resetGlobal(t)
	_, err := Setup(1, "xml", &bytes.Buffer{})
	require.Error(t, err)
}

// TestSetup_JSONOutput verifies that json format writes parseable entries
// and that warn-level suppression works at verbosity 0.
func TestSetup_JSONOutput(t *testing.T) {
	resetGlobal(t)
	var buf bytes.Buffer
	l, err := Setup(0, FormatJSON, &buf)
	require.NoError(t, err)

	l.Info().Msg("should be suppressed")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("visible")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["message"])
	_, hasTime := entry["time"]
	assert.True(t, hasTime, "expected 'time' field in log entry")
}

// TestWithConnection verifies the connection correlation field.
func TestWithConnection(t *testing.T) {
	resetGlobal(t)
	var buf bytes.Buffer
	l, err := Setup(1, FormatJSON, &buf)
	require.NoError(t, err)

	l.WithConnection("conn-42").Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "conn-42", entry["connection"])
}
