package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger := Component("posts")
	logger.Info().Msg("index loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "posts", entry["cmp"])
	assert.Equal(t, "index loaded", entry["message"])
}

func TestNewInvalidLevel(t *testing.T) {
	_, closer, err := New("loud", "")
	require.Error(t, err)
	closer()
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "blogdeck.log")

	l, closer, err := New("warn", path)
	require.NoError(t, err)

	l.Info().Msg("dropped")
	l.Warn().Str("id", "7").Msg("kept")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "7", entry["id"])
	assert.Equal(t, "warn", entry["level"])
}
