package postgres

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"ezistra/internal/app/server/config"
	"ezistra/internal/domain/session"
	"ezistra/internal/domain/sync"
	"ezistra/internal/infrastructure/migration"
	"ezistra/internal/infrastructure/storage/storagetest"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// newTestStorage поднимает схему в базе из TEST_DATABASE_URI и очищает таблицы
func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	uri := os.Getenv("TEST_DATABASE_URI")
	if uri == "" {
		t.Skip("TEST_DATABASE_URI is not set")
	}

	_, file, _, _ := runtime.Caller(0)
	migrations := filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")

	ctx := context.Background()
	db, err := New(ctx, config.DB{DatabaseURI: uri, Migrations: migrations}, migration.DefaultEngine)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Pool().Exec(ctx, `TRUNCATE backups, backup_latest, sessions`)
	require.NoError(t, err)
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSyncRepository(t *testing.T) {
	storagetest.BackupRepository(t, func(t *testing.T) sync.Repository {
		return NewSyncRepository(newTestStorage(t), discardLogger())
	})
}

func TestSessionRepository(t *testing.T) {
	storagetest.SessionRepository(t, func(t *testing.T) session.Repository {
		return NewSessionRepository(newTestStorage(t), discardLogger())
	})
}
