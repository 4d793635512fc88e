package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	clientbackup "ezistra/internal/app/client/backup"
	"ezistra/internal/domain/backup"

	"golang.org/x/exp/slog"
)

var ErrSyncInProgress = errors.New("sync already in progress")

// SyncService переносит полные копии хранилища на сервер и обратно
type SyncService struct {
	serializer *clientbackup.Serializer
	transport  Transport
	log        *slog.Logger
	mu         sync.Mutex
	isSyncing  bool
	stats      SyncStats
}

// SyncStats - счетчики синхронизации за время жизни сервиса
type SyncStats struct {
	TotalUploads   int
	TotalDownloads int
	TotalErrors    int
	LastBackupID   string
	LastSuccessful time.Time
}

// PullResult - итог загрузки копии с сервера
type PullResult struct {
	Blob   *backup.Blob
	Report *clientbackup.RestoreReport
}

func NewSyncService(serializer *clientbackup.Serializer, transport Transport, log *slog.Logger) *SyncService {
	return &SyncService{
		serializer: serializer,
		transport:  transport,
		log:        log.With(slog.String("component", "sync")),
	}
}

// Push снимает копию всех хранилищ и отправляет ее на сервер
func (s *SyncService) Push(ctx context.Context, backupID string) (*UploadResult, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	blob, err := s.serializer.Snapshot(ctx, backupID)
	if err != nil {
		return nil, s.fail(fmt.Errorf("ошибка снятия копии: %w", err))
	}

	result, err := s.transport.Upload(ctx, blob)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.stats.TotalUploads++
	s.stats.LastBackupID = result.BackupID
	s.stats.LastSuccessful = time.Now()
	s.mu.Unlock()

	s.log.Info("Копия загружена на сервер", "backup_id", result.BackupID)
	return result, nil
}

// Pull получает копию с сервера. Пустой backupID означает последнюю копию.
// При restore содержимое локальных хранилищ заменяется данными копии.
func (s *SyncService) Pull(ctx context.Context, backupID string, restore bool) (*PullResult, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	blob, err := s.transport.Download(ctx, backupID)
	if err != nil {
		return nil, s.fail(err)
	}

	result := &PullResult{Blob: blob}
	if restore {
		report, err := s.serializer.Restore(ctx, blob)
		if err != nil {
			return nil, s.fail(fmt.Errorf("ошибка восстановления копии: %w", err))
		}
		result.Report = report
	}

	s.mu.Lock()
	s.stats.TotalDownloads++
	s.stats.LastBackupID = blob.BackupID
	s.stats.LastSuccessful = time.Now()
	s.mu.Unlock()

	s.log.Info("Копия получена с сервера", "backup_id", blob.BackupID, "restored", restore)
	return result, nil
}

// Stats возвращает снимок счетчиков
func (s *SyncService) Stats() SyncStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *SyncService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isSyncing {
		return ErrSyncInProgress
	}
	s.isSyncing = true
	return nil
}

func (s *SyncService) end() {
	s.mu.Lock()
	s.isSyncing = false
	s.mu.Unlock()
}

func (s *SyncService) fail(err error) error {
	s.mu.Lock()
	s.stats.TotalErrors++
	s.mu.Unlock()
	s.log.Error("Ошибка синхронизации", "error", err)
	return err
}
