package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubychat/gamescan/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWritesJSONToBuffers(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(config.LogConfig{Level: "info"}, &buf), "scanner")

	log.Debug().Msg("hidden")
	log.Info().Str("game", "Celeste").Msg("detected")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "detected", line["message"])
	assert.Equal(t, "scanner", line["component"])
	assert.Equal(t, "Celeste", line["game"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamescan.log")
	log, closer := NewFile(config.Default().Log, path)
	log.Info().Msg("hello")
	require.NoError(t, closer.Close())

	assert.FileExists(t, path)
}
