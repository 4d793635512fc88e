package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ezistra/internal/domain/backup"

	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

// Счет в индексе: UnixMilli*seqSlots + номер загрузки по модулю seqSlots,
// так копии одной миллисекунды идут в порядке загрузки, а не по имени.
const seqSlots = 1000

func indexScore(createdAt time.Time, seq int64) float64 {
	return float64(createdAt.UnixMilli()*seqSlots + seq%seqSlots)
}

func scoreTime(score float64) time.Time {
	return time.UnixMilli(int64(score) / seqSlots).UTC()
}

// BackupRepository хранит копии в redis: тело по ключу копии,
// указатель latest и индекс копий пользователя в sorted set по времени загрузки.
type BackupRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewBackupRepository(db *Storage, log *slog.Logger) *BackupRepository {
	return &BackupRepository{
		db:  db,
		log: log,
	}
}

func (r *BackupRepository) Save(ctx context.Context, userID string, entry *backup.Entry) error {
	latest, err := json.Marshal(backup.Latest{BackupID: entry.BackupID, CreatedAt: entry.CreatedAt})
	if err != nil {
		return fmt.Errorf("marshal latest: %w", err)
	}

	seq, err := r.db.client.Incr(ctx, seqKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("next backup seq: %w", err)
	}

	_, err = r.db.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, backupKey(userID, entry.BackupID), entry.Data, 0)
		pipe.Set(ctx, latestKey(userID), latest, 0)
		pipe.ZAdd(ctx, indexKey(userID), redis.Z{
			Score:  indexScore(entry.CreatedAt, seq),
			Member: entry.BackupID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save backup: %w", err)
	}
	return nil
}

func (r *BackupRepository) Get(ctx context.Context, userID, backupID string) (*backup.Entry, error) {
	data, err := r.db.client.Get(ctx, backupKey(userID, backupID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, backup.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get backup: %w", err)
	}

	entry := &backup.Entry{BackupID: backupID, Data: data}
	score, err := r.db.client.ZScore(ctx, indexKey(userID), backupID).Result()
	switch {
	case err == nil:
		entry.CreatedAt = scoreTime(score)
	case !errors.Is(err, redis.Nil):
		r.log.Warn("backup index lookup failed", slog.String("backup_id", backupID), slog.String("error", err.Error()))
	}
	return entry, nil
}

func (r *BackupRepository) Latest(ctx context.Context, userID string) (*backup.Latest, error) {
	data, err := r.db.client.Get(ctx, latestKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, backup.ErrNoBackupForUser
	}
	if err != nil {
		return nil, fmt.Errorf("get latest: %w", err)
	}

	var latest backup.Latest
	if err := json.Unmarshal(data, &latest); err != nil {
		return nil, fmt.Errorf("decode latest: %w", err)
	}
	return &latest, nil
}

func (r *BackupRepository) List(ctx context.Context, userID string) ([]backup.Latest, error) {
	items, err := r.db.client.ZRangeWithScores(ctx, indexKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}

	list := make([]backup.Latest, 0, len(items))
	for _, z := range items {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		list = append(list, backup.Latest{
			BackupID:  id,
			CreatedAt: scoreTime(z.Score),
		})
	}
	return list, nil
}

func (r *BackupRepository) Delete(ctx context.Context, userID string, backupIDs ...string) error {
	if len(backupIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(backupIDs))
	members := make([]interface{}, 0, len(backupIDs))
	for _, id := range backupIDs {
		keys = append(keys, backupKey(userID, id))
		members = append(members, id)
	}

	_, err := r.db.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, indexKey(userID), members...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete backups: %w", err)
	}
	return nil
}
