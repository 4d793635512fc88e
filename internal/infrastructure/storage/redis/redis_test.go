package redis

import (
	"context"
	"io"
	"testing"
	"time"

	"ezistra/internal/domain/backup"
	"ezistra/internal/domain/session"
	"ezistra/internal/domain/sync"
	"ezistra/internal/infrastructure/storage/storagetest"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func newTestStorage(t *testing.T) (*Storage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	db, err := New(context.Background(), Options{Addr: mr.Addr()}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mr
}

func TestBackupRepository(t *testing.T) {
	storagetest.BackupRepository(t, func(t *testing.T) sync.Repository {
		db, _ := newTestStorage(t)
		return NewBackupRepository(db, db.log)
	})
}

func TestSessionRepository(t *testing.T) {
	storagetest.SessionRepository(t, func(t *testing.T) session.Repository {
		db, _ := newTestStorage(t)
		return NewSessionRepository(db, db.log)
	})
}

func TestBackupRepository_KeyLayout(t *testing.T) {
	db, mr := newTestStorage(t)
	repo := NewBackupRepository(db, db.log)
	createdAt := time.Date(2025, time.October, 14, 9, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Save(context.Background(), "u1", &backup.Entry{
		BackupID:  "b1",
		Data:      []byte(`{"backupId":"b1"}`),
		CreatedAt: createdAt,
	}))

	body, err := mr.Get("sync:backup:u1:b1")
	require.NoError(t, err)
	assert.Equal(t, `{"backupId":"b1"}`, body)

	latest, err := mr.Get("sync:latest:u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"backupId":"b1","createdAt":"2025-10-14T09:30:00Z"}`, latest)

	members, err := mr.ZMembers("sync:index:u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, members)

	score, err := mr.ZScore("sync:index:u1", "b1")
	require.NoError(t, err)
	assert.Equal(t, float64(createdAt.UnixMilli()*seqSlots+1), score)

	seq, err := mr.Get("sync:seq:u1")
	require.NoError(t, err)
	assert.Equal(t, "1", seq)

	entry, err := repo.Get(context.Background(), "u1", "b1")
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(entry.CreatedAt))
}

func TestSessionRepository_TTL(t *testing.T) {
	db, mr := newTestStorage(t)
	repo := NewSessionRepository(db, db.log)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "u1", time.Now().Add(time.Hour)))
	assert.True(t, mr.Exists("session:u1"))
	assert.Greater(t, mr.TTL("session:u1"), 59*time.Minute)

	mr.FastForward(2 * time.Hour)

	active, err := repo.HasActive(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestIndexScore(t *testing.T) {
	at := time.Now().UTC().Truncate(time.Millisecond)

	assert.Less(t, indexScore(at, 2), indexScore(at, 3))
	assert.Less(t, indexScore(at, 999), indexScore(at.Add(time.Millisecond), 1000))
	assert.True(t, at.Equal(scoreTime(indexScore(at, 42))))
}
