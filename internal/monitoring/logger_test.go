package monitoring

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })
	Logf("test message")
	assert.True(t, called)

	called = false
	SetLogger(nil)
	Logf("test")
	assert.False(t, called)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)

	lvl, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetup_JSON(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var buf bytes.Buffer
	l, err := Setup(&buf, zerolog.DebugLevel, FormatJSON)
	require.NoError(t, err)

	l.Info().Str("stage", "mesh").Msg("built")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "mesh", entry["stage"])
	assert.Equal(t, "built", entry["message"])

	buf.Reset()
	Logf("applied %d migrations\n", 1)
	assert.Contains(t, buf.String(), `"message":"applied 1 migrations"`)
}

func TestSetup_ConsoleFiltersLevel(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var buf bytes.Buffer
	l, err := Setup(&buf, zerolog.WarnLevel, FormatConsole)
	require.NoError(t, err)

	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetup_BadFormat(t *testing.T) {
	_, err := Setup(&bytes.Buffer{}, zerolog.InfoLevel, "xml")
	assert.Error(t, err)
}

func TestVerbosityLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, VerbosityLevel(zerolog.InfoLevel, true, true))
	assert.Equal(t, zerolog.ErrorLevel, VerbosityLevel(zerolog.InfoLevel, false, true))
	assert.Equal(t, zerolog.WarnLevel, VerbosityLevel(zerolog.WarnLevel, false, false))
}
