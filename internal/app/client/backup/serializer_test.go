package backup

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ezistra/internal/app/client/repository"
	"ezistra/internal/domain/backup"
	"ezistra/internal/domain/profile"
	"ezistra/internal/infrastructure/storage/local"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openStore(t *testing.T) *local.Store {
	t.Helper()
	store, err := local.Open(context.Background(), filepath.Join(t.TempDir(), "data.db"), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func populate(t *testing.T, store *local.Store) {
	t.Helper()
	ctx := context.Background()
	set, err := repository.NewSet(store, nil)
	require.NoError(t, err)

	_, err = set.PersonalInfo.Add(ctx, profile.PersonalInfo{CNE: "CNE1", FirstName: "Ana", LastName: "Alaoui"})
	require.NoError(t, err)
	_, err = set.Documents.Add(ctx, profile.DocumentInfo{
		StudentID:   "1",
		Type:        "CIN",
		FileName:    "x.pdf",
		FileSize:    3,
		FileType:    "application/pdf",
		FileContent: "YWJj",
	})
	require.NoError(t, err)
}

func fixedSerializer(store *local.Store) *Serializer {
	s := NewSerializer(store, "laptop", discardLogger())
	s.now = func() time.Time { return time.Date(2025, time.October, 14, 9, 30, 0, 0, time.UTC) }
	s.newID = func() string { return "backup:fixed" }
	return s
}

func TestSerializer_SnapshotWireFormat(t *testing.T) {
	store := openStore(t)
	populate(t, store)

	blob, err := fixedSerializer(store).Snapshot(context.Background(), "")
	require.NoError(t, err)

	data, err := json.MarshalIndent(blob, "", "  ")
	require.NoError(t, err)
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "snapshot", data)
}

func TestSerializer_SnapshotCoversEveryStore(t *testing.T) {
	store := openStore(t)

	blob, err := NewSerializer(store, "", discardLogger()).Snapshot(context.Background(), "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(blob.BackupID, "backup:"))
	assert.Len(t, blob.Stores, len(store.Schema().Names()))
	for _, name := range store.Schema().Names() {
		records, ok := blob.Stores[name]
		require.True(t, ok, name)
		assert.NotNil(t, records, name)
		assert.Empty(t, records, name)
	}

	raw, err := json.Marshal(blob)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "clientId")
	assert.Contains(t, string(raw), `"users":[]`)
}

func TestSerializer_SnapshotKeepsGivenID(t *testing.T) {
	blob, err := NewSerializer(openStore(t), "", discardLogger()).Snapshot(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", blob.BackupID)
}

func TestSerializer_UniqueIDs(t *testing.T) {
	s := NewSerializer(openStore(t), "", discardLogger())

	first, err := s.Snapshot(context.Background(), "")
	require.NoError(t, err)
	second, err := s.Snapshot(context.Background(), "")
	require.NoError(t, err)

	assert.NotEqual(t, first.BackupID, second.BackupID)
}

func TestSerializer_RestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := openStore(t)
	populate(t, source)

	blob, err := fixedSerializer(source).Snapshot(ctx, "")
	require.NoError(t, err)

	// копия проходит через JSON, как при загрузке с сервера
	raw, err := json.Marshal(blob)
	require.NoError(t, err)
	var downloaded backup.Blob
	require.NoError(t, json.Unmarshal(raw, &downloaded))
	downloaded.Stores["legacy_store"] = []json.RawMessage{json.RawMessage(`{"id":"1"}`)}

	target := openStore(t)
	set, err := repository.NewSet(target, nil)
	require.NoError(t, err)
	_, err = set.Users.Add(ctx, profile.User{Name: "stale", Email: "stale@example.ma"})
	require.NoError(t, err)

	report, err := fixedSerializer(target).Restore(ctx, &downloaded)
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy_store"}, report.Skipped)
	assert.Equal(t, 1, report.Restored[local.StorePersonalInfo])
	assert.Equal(t, 0, report.Restored[local.StoreUsers])

	restored, err := fixedSerializer(target).Snapshot(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, blob.Stores, restored.Stores)

	anna, err := set.PersonalInfo.FindByCNE(ctx, "CNE1")
	require.NoError(t, err)
	require.NotNil(t, anna)
	assert.Equal(t, "Ana", anna.FirstName)

	// генератор ключей продолжает после восстановленных записей
	id, err := set.PersonalInfo.Add(ctx, profile.PersonalInfo{CNE: "CNE2", FirstName: "Omar"})
	require.NoError(t, err)
	assert.Equal(t, "2", id)
}

func TestSerializer_RestoreNil(t *testing.T) {
	_, err := NewSerializer(openStore(t), "", discardLogger()).Restore(context.Background(), nil)
	assert.ErrorIs(t, err, backup.ErrInvalidBlob)
}
