package storage

import (
	"context"
	"io"
	"testing"

	"ezistra/internal/app/server/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), &config.Config{Storage: config.StoreMemory}, discardLogger())
	require.NoError(t, err)
	assert.NotNil(t, s.Backups)
	assert.NotNil(t, s.Sessions)
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{Storage: config.StoreRedis, Redis: config.Redis{Addr: mr.Addr()}}

	s, err := Open(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	assert.NotNil(t, s.Backups)
	assert.NoError(t, s.Ping(context.Background()))

	mr.Close()
	assert.Error(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}

func TestOpen_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), &config.Config{Storage: config.StoreRedis, Redis: config.Redis{Addr: addr}}, discardLogger())
	assert.Error(t, err)
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Storage: "s3"}, discardLogger())
	assert.Error(t, err)
}
