package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"golang.org/x/exp/slog"

	"ezistra/internal/app/server/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		opts      []Option
		wantLevel slog.Level
	}{
		{name: "local", env: config.EnvLocal, wantLevel: slog.LevelDebug},
		{name: "dev", env: config.EnvDev, wantLevel: slog.LevelDebug},
		{name: "prod", env: config.EnvProd, wantLevel: slog.LevelInfo},
		{name: "unknown env", env: "staging", wantLevel: slog.LevelInfo},
		{name: "level override", env: config.EnvDev, opts: []Option{WithLevel("warn")}, wantLevel: slog.LevelWarn},
		{name: "empty level keeps env", env: config.EnvLocal, opts: []Option{WithLevel("")}, wantLevel: slog.LevelDebug},
		{name: "bad level keeps env", env: config.EnvProd, opts: []Option{WithLevel("loud")}, wantLevel: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.env, append(tt.opts, WithOutput(io.Discard))...)
			require.NotNil(t, log)

			ctx := context.Background()
			for _, l := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
				assert.Equal(t, l >= tt.wantLevel, log.Enabled(ctx, l), "level %s", l)
			}
		})
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.EnvProd, WithOutput(&buf))

	log.Info("backup stored", slog.String("backup_id", "b1"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "backup stored", entry["msg"])
	assert.Equal(t, "b1", entry["backup_id"])
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel(" ERROR ")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelError, l)

	_, ok = ParseLevel("trace")
	assert.False(t, ok)
}
