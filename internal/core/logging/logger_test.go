package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestComponent(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	l := Component("scheduler")
	l.Info().Msg("test message")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "scheduler", entry[ComponentKey])
	assert.Equal(t, "test message", entry["message"])
}

func TestSub(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf).With().Str("run", "r1").Logger()

	l := Sub(base, "bridge")
	l.Warn().Msg("slow call")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "bridge", entry[ComponentKey])
	assert.Equal(t, "r1", entry["run"])
	assert.Equal(t, "warn", entry["level"])
}
