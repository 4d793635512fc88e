package sync

import (
	"context"

	"ezistra/internal/domain/backup"
)

// Repository хранит копии пользователей по ключу (userID, backupID) и указатель на последнюю
type Repository interface {
	// Save сохраняет копию и переводит на нее указатель latest
	Save(ctx context.Context, userID string, entry *backup.Entry) error
	// Get возвращает backup.ErrNotFound, если копии нет
	Get(ctx context.Context, userID, backupID string) (*backup.Entry, error)
	// Latest возвращает backup.ErrNoBackupForUser, если указатель не установлен
	Latest(ctx context.Context, userID string) (*backup.Latest, error)
	// List возвращает копии пользователя от старых к новым
	List(ctx context.Context, userID string) ([]backup.Latest, error)
	Delete(ctx context.Context, userID string, backupIDs ...string) error
}
