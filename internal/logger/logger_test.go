package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(out), "\n") {
		if raw == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &m), raw)
		lines = append(lines, m)
	}
	return lines
}

func TestNewWithWriter_ErrorCarriesStackAndService(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "memo-service", "info")
	l.Error().Stack().Err(errors.New("disk full")).Msg("save failed")

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 1)
	assert.Equal(t, "memo-service", lines[0]["service"])
	assert.Equal(t, "error", lines[0]["level"])
	assert.Equal(t, "disk full", lines[0]["error"])
	assert.Contains(t, lines[0], "stack", "plain errors get a stack attached")
	assert.Contains(t, lines[0], "time")
}

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "memo-service", " WARN ")
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestNewWithWriter_UnknownLevelIsInfo(t *testing.T) {
	for _, level := range []string{"", "chatty"} {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, "memo-service", level)
		l.Debug().Msg("debug")
		l.Info().Msg("info")

		lines := decodeLines(t, buf.String())
		require.Len(t, lines, 1, "level %q", level)
		assert.Equal(t, "info", lines[0]["message"])
	}
}

func TestSetGlobal(t *testing.T) {
	orig := log.Logger
	t.Cleanup(func() { log.Logger = orig })

	var buf bytes.Buffer
	SetGlobal(NewWithWriter(&buf, "memo-service", "info"))
	log.Info().Msg("via global")

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 1)
	assert.Equal(t, "memo-service", lines[0]["service"])
}
