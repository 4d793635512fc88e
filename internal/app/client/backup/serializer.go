package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ezistra/internal/domain/backup"
	"ezistra/internal/infrastructure/storage/local"

	"golang.org/x/exp/slog"
)

// Serializer снимает и восстанавливает полные копии встроенного хранилища
type Serializer struct {
	store    *local.Store
	clientID string
	now      func() time.Time
	newID    func() string
	log      *slog.Logger
}

func NewSerializer(store *local.Store, clientID string, log *slog.Logger) *Serializer {
	return &Serializer{
		store:    store,
		clientID: clientID,
		now:      time.Now,
		newID:    backup.NewID,
		log:      log.With(slog.String("component", "backup_serializer")),
	}
}

// Snapshot читает все хранилища реестра и собирает копию.
// Пустые хранилища попадают в копию пустым массивом. Без backupID генерируется новый.
func (s *Serializer) Snapshot(ctx context.Context, backupID string) (*backup.Blob, error) {
	if backupID == "" {
		backupID = s.newID()
	}

	defs := s.store.Schema().Stores()
	blob := &backup.Blob{
		BackupID:  backupID,
		ClientID:  s.clientID,
		CreatedAt: s.now().UTC(),
		Stores:    make(map[string][]json.RawMessage, len(defs)),
	}

	for _, def := range defs {
		c, err := local.NewCollection[json.RawMessage](s.store, def.Name)
		if err != nil {
			return nil, err
		}
		records, err := c.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", def.Name, err)
		}
		blob.Stores[def.Name] = records
	}

	s.log.Debug("snapshot taken", slog.String("backup_id", backupID), slog.Int("stores", len(blob.Stores)))
	return blob, nil
}

// RestoreReport - итог восстановления по хранилищам
type RestoreReport struct {
	Restored map[string]int
	Skipped  []string
}

// Restore заменяет содержимое каждого известного хранилища данными копии.
// Каждое хранилище заменяется своей транзакцией; между хранилищами атомарности нет.
// Хранилища из копии, которых нет в реестре, пропускаются.
func (s *Serializer) Restore(ctx context.Context, blob *backup.Blob) (*RestoreReport, error) {
	if blob == nil {
		return nil, backup.ErrInvalidBlob
	}

	report := &RestoreReport{Restored: make(map[string]int, len(blob.Stores))}
	schema := s.store.Schema()

	for name := range blob.Stores {
		if _, ok := schema.Store(name); !ok {
			s.log.Warn("unknown store skipped", slog.String("store", name))
			report.Skipped = append(report.Skipped, name)
		}
	}

	for _, def := range schema.Stores() {
		records, ok := blob.Stores[def.Name]
		if !ok {
			continue
		}
		c, err := local.NewCollection[json.RawMessage](s.store, def.Name)
		if err != nil {
			return report, err
		}
		ids, err := c.Replace(ctx, records)
		if err != nil {
			return report, fmt.Errorf("restore %s: %w", def.Name, err)
		}
		report.Restored[def.Name] = len(ids)
	}

	s.log.Info("backup restored", slog.String("backup_id", blob.BackupID), slog.Int("stores", len(report.Restored)))
	return report, nil
}
