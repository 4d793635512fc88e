package backup

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const idPrefix = "backup:"

var (
	ErrNotFound        = errors.New("backup not found")
	ErrNoBackupForUser = errors.New("no backup found for user")
	ErrInvalidBlob     = errors.New("invalid backup blob")
)

// Blob - полный снимок всех хранилищ клиента. Имена полей JSON - часть протокола.
type Blob struct {
	BackupID  string                       `json:"backupId"`
	ClientID  string                       `json:"clientId,omitempty"`
	CreatedAt time.Time                    `json:"createdAt"`
	Stores    map[string][]json.RawMessage `json:"stores"`
}

// Latest - указатель на последнюю загруженную копию пользователя
type Latest struct {
	BackupID  string    `json:"backupId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Entry - сохраненная копия: исходные байты и время загрузки
type Entry struct {
	BackupID  string
	Data      []byte
	CreatedAt time.Time
}

// NewID генерирует идентификатор копии
func NewID() string {
	return idPrefix + uuid.NewString()
}
