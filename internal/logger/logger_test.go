package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_FileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gstbill.log")

	closer, err := Setup(LogConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log := WithComponent("billing")
	log.Info().Str("invoice", "INV-2026-00001").Msg("invoice committed")
	log.Debug().Msg("dropped below level")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"billing"`)
	assert.Contains(t, string(data), `"invoice":"INV-2026-00001"`)
	assert.NotContains(t, string(data), "dropped below level")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetup_RejectsUnknownLevel(t *testing.T) {
	_, err := Setup(LogConfig{Level: "loud", Output: "stderr"})
	assert.Error(t, err)
}
