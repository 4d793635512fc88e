// Package storagetest содержит общие проверки для реализаций хранилищ сервера.
package storagetest

import (
	"context"
	"testing"
	"time"

	"ezistra/internal/domain/backup"
	"ezistra/internal/domain/session"
	"ezistra/internal/domain/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, time.October, 14, 9, 30, 0, 0, time.UTC)

func entry(id string, offset time.Duration) *backup.Entry {
	return &backup.Entry{
		BackupID:  id,
		Data:      []byte(`{"backupId":"` + id + `","stores":{}}`),
		CreatedAt: base.Add(offset),
	}
}

func backupIDs(list []backup.Latest) []string {
	ids := make([]string, 0, len(list))
	for _, b := range list {
		ids = append(ids, b.BackupID)
	}
	return ids
}

// BackupRepository проверяет контракт sync.Repository на свежем экземпляре
func BackupRepository(t *testing.T, newRepo func(t *testing.T) sync.Repository) {
	t.Run("empty user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Latest(ctx, "u1")
		assert.ErrorIs(t, err, backup.ErrNoBackupForUser)

		_, err = repo.Get(ctx, "u1", "b1")
		assert.ErrorIs(t, err, backup.ErrNotFound)

		list, err := repo.List(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("save sets latest", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Save(ctx, "u1", entry("b1", 0)))
		require.NoError(t, repo.Save(ctx, "u1", entry("b2", time.Minute)))

		latest, err := repo.Latest(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "b2", latest.BackupID)
		assert.True(t, base.Add(time.Minute).Equal(latest.CreatedAt))

		got, err := repo.Get(ctx, "u1", "b1")
		require.NoError(t, err)
		assert.Equal(t, entry("b1", 0).Data, got.Data)
		assert.Equal(t, "b1", got.BackupID)
	})

	t.Run("users are isolated", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Save(ctx, "A", entry("b1", 0)))
		require.NoError(t, repo.Save(ctx, "B", entry("b2", time.Minute)))

		latestA, err := repo.Latest(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, "b1", latestA.BackupID)

		latestB, err := repo.Latest(ctx, "B")
		require.NoError(t, err)
		assert.Equal(t, "b2", latestB.BackupID)

		_, err = repo.Get(ctx, "A", "b2")
		assert.ErrorIs(t, err, backup.ErrNotFound)
	})

	t.Run("overwrite same id", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Save(ctx, "u1", entry("b1", 0)))
		require.NoError(t, repo.Save(ctx, "u1", entry("b2", time.Minute)))
		again := entry("b1", 2*time.Minute)
		again.Data = []byte(`{"backupId":"b1","v":2}`)
		require.NoError(t, repo.Save(ctx, "u1", again))

		latest, err := repo.Latest(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "b1", latest.BackupID)

		got, err := repo.Get(ctx, "u1", "b1")
		require.NoError(t, err)
		assert.Equal(t, again.Data, got.Data)

		list, err := repo.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "b2", list[0].BackupID)
		assert.Equal(t, "b1", list[1].BackupID)
	})

	t.Run("same timestamp keeps upload order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, id := range []string{"z-first", "m-second", "a-third"} {
			require.NoError(t, repo.Save(ctx, "u1", entry(id, 0)))
		}

		list, err := repo.List(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"z-first", "m-second", "a-third"}, backupIDs(list))
	})

	t.Run("list oldest first and delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Save(ctx, "u1", entry("b3", 3*time.Minute)))
		require.NoError(t, repo.Save(ctx, "u1", entry("b1", time.Minute)))
		require.NoError(t, repo.Save(ctx, "u1", entry("b2", 2*time.Minute)))

		list, err := repo.List(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"b1", "b2", "b3"}, backupIDs(list))

		require.NoError(t, repo.Delete(ctx, "u1", "b1", "b3"))
		require.NoError(t, repo.Delete(ctx, "u1"))

		_, err = repo.Get(ctx, "u1", "b1")
		assert.ErrorIs(t, err, backup.ErrNotFound)
		_, err = repo.Get(ctx, "u1", "b2")
		assert.NoError(t, err)

		list, err = repo.List(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

// SessionRepository проверяет контракт session.Repository
func SessionRepository(t *testing.T, newRepo func(t *testing.T) session.Repository) {
	t.Run("lifecycle", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		active, err := repo.HasActive(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, active)

		require.NoError(t, repo.Create(ctx, "u1", time.Now().Add(time.Hour)))
		active, err = repo.HasActive(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, active)

		active, err = repo.HasActive(ctx, "u2")
		require.NoError(t, err)
		assert.False(t, active)

		require.NoError(t, repo.Delete(ctx, "u1"))
		active, err = repo.HasActive(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("expired", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Create(ctx, "u1", time.Now().Add(-time.Minute)))
		active, err := repo.HasActive(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, active)
	})
}
