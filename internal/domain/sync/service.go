package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ezistra/internal/domain/backup"

	"golang.org/x/exp/slog"
)

// Servicer интерфейс сервиса резервных копий
type Servicer interface {
	// Upload сохраняет копию пользователя и делает ее последней
	Upload(ctx context.Context, userID string, body []byte) (*UploadResponse, error)

	// Download возвращает байты копии; пустой backupID означает последнюю
	Download(ctx context.Context, userID, backupID string) ([]byte, error)
}

// UploadResponse ответ на загрузку копии
type UploadResponse struct {
	OK       bool   `json:"ok"`
	BackupID string `json:"backupId"`
}

// ServiceConfig ограничения сервиса
type ServiceConfig struct {
	// Retention - сколько копий хранить на пользователя; 0 - без ограничения
	Retention      int
	MaxBackupBytes int64
}

// Service реализация сервиса резервных копий
type Service struct {
	repo   Repository
	log    *slog.Logger
	config *ServiceConfig
	now    func() time.Time
	newID  func() string
}

// NewService создает новый сервис резервных копий
func NewService(repo Repository, log *slog.Logger, config *ServiceConfig) *Service {
	if config == nil {
		config = &ServiceConfig{
			MaxBackupBytes: 32 << 20,
		}
	}

	return &Service{
		repo:   repo,
		log:    log,
		config: config,
		now:    time.Now,
		newID:  backup.NewID,
	}
}

func (s *Service) Upload(ctx context.Context, userID string, body []byte) (*UploadResponse, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if s.config.MaxBackupBytes > 0 && int64(len(body)) > s.config.MaxBackupBytes {
		return nil, ErrBackupTooLarge
	}

	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	data := body
	backupID := stringField(fields, "backupId")
	if backupID == "" {
		backupID = nestedBackupID(fields)
		if backupID == "" {
			backupID = s.newID()
		}
		// копия без backupId верхнего уровня сохраняется с ним
		if data, err = withBackupID(fields, backupID); err != nil {
			return nil, err
		}
	}

	entry := &backup.Entry{
		BackupID:  backupID,
		Data:      data,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, userID, entry); err != nil {
		return nil, fmt.Errorf("failed to save backup: %w", err)
	}

	s.log.Info("backup uploaded",
		slog.String("user_id", userID),
		slog.String("backup_id", backupID),
		slog.Int("size", len(data)),
	)

	s.enforceRetention(ctx, userID, backupID)

	return &UploadResponse{OK: true, BackupID: backupID}, nil
}

func (s *Service) Download(ctx context.Context, userID, backupID string) ([]byte, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	if backupID == "" {
		latest, err := s.repo.Latest(ctx, userID)
		if err != nil {
			return nil, err
		}
		backupID = latest.BackupID
	}

	entry, err := s.repo.Get(ctx, userID, backupID)
	if err != nil {
		return nil, err
	}
	return entry.Data, nil
}

// enforceRetention удаляет самые старые копии сверх лимита. Текущая копия не удаляется.
// Ошибки только логируются: загрузка уже состоялась.
func (s *Service) enforceRetention(ctx context.Context, userID, current string) {
	if s.config.Retention <= 0 {
		return
	}

	list, err := s.repo.List(ctx, userID)
	if err != nil {
		s.log.Warn("failed to list backups for retention", slog.String("user_id", userID), slog.String("error", err.Error()))
		return
	}

	excess := len(list) - s.config.Retention
	if excess <= 0 {
		return
	}

	stale := make([]string, 0, excess)
	for _, b := range list {
		if len(stale) == excess {
			break
		}
		if b.BackupID == current {
			continue
		}
		stale = append(stale, b.BackupID)
	}

	if err := s.repo.Delete(ctx, userID, stale...); err != nil {
		s.log.Warn("failed to delete old backups", slog.String("user_id", userID), slog.String("error", err.Error()))
		return
	}
	s.log.Debug("old backups removed", slog.String("user_id", userID), slog.Int("count", len(stale)))
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: body must be a JSON object", backup.ErrInvalidBlob)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", backup.ErrInvalidBlob, err)
	}
	return fields, nil
}

// stringField возвращает непустую строку поля; значения других типов игнорируются
func stringField(fields map[string]json.RawMessage, name string) string {
	raw, ok := fields[name]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

func nestedBackupID(fields map[string]json.RawMessage) string {
	raw, ok := fields["backup"]
	if !ok {
		return ""
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err != nil {
		return ""
	}
	return stringField(nested, "backupId")
}

func withBackupID(fields map[string]json.RawMessage, backupID string) ([]byte, error) {
	id, err := json.Marshal(backupID)
	if err != nil {
		return nil, err
	}
	fields["backupId"] = id

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backup.ErrInvalidBlob, err)
	}
	return data, nil
}

// IsNotFound сообщает, относится ли ошибка к отсутствующей копии
func IsNotFound(err error) bool {
	return errors.Is(err, backup.ErrNotFound) || errors.Is(err, backup.ErrNoBackupForUser)
}
