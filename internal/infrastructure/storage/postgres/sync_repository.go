package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"ezistra/internal/domain/backup"
)

// SyncRepository реализация репозитория копий для PostgreSQL
type SyncRepository struct {
	db  *Storage
	log *slog.Logger
}

// NewSyncRepository создает новый репозиторий копий
func NewSyncRepository(db *Storage, log *slog.Logger) *SyncRepository {
	return &SyncRepository{
		db:  db,
		log: log,
	}
}

// Save сохраняет копию и указатель latest в одной транзакции
func (r *SyncRepository) Save(ctx context.Context, userID string, entry *backup.Entry) error {
	err := pgx.BeginFunc(ctx, r.db.Pool(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO backups (user_id, backup_id, data, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, backup_id) DO UPDATE SET
				data = EXCLUDED.data,
				created_at = EXCLUDED.created_at,
				seq = nextval(pg_get_serial_sequence('backups', 'seq'))`,
			userID, entry.BackupID, entry.Data, entry.CreatedAt); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO backup_latest (user_id, backup_id, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id) DO UPDATE SET
				backup_id = EXCLUDED.backup_id,
				created_at = EXCLUDED.created_at`,
			userID, entry.BackupID, entry.CreatedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save backup: %w", err)
	}
	return nil
}

func (r *SyncRepository) Get(ctx context.Context, userID, backupID string) (*backup.Entry, error) {
	entry := &backup.Entry{BackupID: backupID}
	err := r.db.Pool().QueryRow(ctx,
		`SELECT data, created_at FROM backups WHERE user_id = $1 AND backup_id = $2`,
		userID, backupID).Scan(&entry.Data, &entry.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, backup.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get backup: %w", err)
	}
	return entry, nil
}

func (r *SyncRepository) Latest(ctx context.Context, userID string) (*backup.Latest, error) {
	var latest backup.Latest
	err := r.db.Pool().QueryRow(ctx,
		`SELECT backup_id, created_at FROM backup_latest WHERE user_id = $1`,
		userID).Scan(&latest.BackupID, &latest.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, backup.ErrNoBackupForUser
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest backup: %w", err)
	}
	return &latest, nil
}

// List отдает копии от старых к новым; при равном created_at порядок загрузки задает seq
func (r *SyncRepository) List(ctx context.Context, userID string) ([]backup.Latest, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT backup_id, created_at FROM backups
		 WHERE user_id = $1
		 ORDER BY created_at, seq`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	defer rows.Close()

	var list []backup.Latest
	for rows.Next() {
		var b backup.Latest
		if err := rows.Scan(&b.BackupID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan backup: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *SyncRepository) Delete(ctx context.Context, userID string, backupIDs ...string) error {
	if len(backupIDs) == 0 {
		return nil
	}
	tag, err := r.db.Pool().Exec(ctx,
		`DELETE FROM backups WHERE user_id = $1 AND backup_id = ANY($2)`,
		userID, backupIDs)
	if err != nil {
		return fmt.Errorf("failed to delete backups: %w", err)
	}
	r.log.Debug("backups deleted", slog.String("user_id", userID), slog.Int64("rows", tag.RowsAffected()))
	return nil
}
