package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ezistra/internal/domain/backup"
)

type stored struct {
	entry backup.Entry
	seq   uint64
}

// seq - порядок загрузки, разводит копии с одинаковым CreatedAt
type userBackups struct {
	entries map[string]*stored
	latest  *backup.Latest
	seq     uint64
}

// BackupRepository хранит копии в памяти процесса
type BackupRepository struct {
	mu    sync.RWMutex
	users map[string]*userBackups
}

func NewBackupRepository() *BackupRepository {
	return &BackupRepository{users: make(map[string]*userBackups)}
}

func (r *BackupRepository) Save(_ context.Context, userID string, entry *backup.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		u = &userBackups{entries: make(map[string]*stored)}
		r.users[userID] = u
	}

	u.seq++
	e := &stored{entry: *entry, seq: u.seq}
	e.entry.Data = append([]byte(nil), entry.Data...)
	u.entries[entry.BackupID] = e
	u.latest = &backup.Latest{BackupID: entry.BackupID, CreatedAt: entry.CreatedAt}
	return nil
}

func (r *BackupRepository) Get(_ context.Context, userID, backupID string) (*backup.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, backup.ErrNotFound
	}
	e, ok := u.entries[backupID]
	if !ok {
		return nil, backup.ErrNotFound
	}
	out := e.entry
	return &out, nil
}

func (r *BackupRepository) Latest(_ context.Context, userID string) (*backup.Latest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok || u.latest == nil {
		return nil, backup.ErrNoBackupForUser
	}
	out := *u.latest
	return &out, nil
}

func (r *BackupRepository) List(_ context.Context, userID string) ([]backup.Latest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	entries := make([]*stored, 0, len(u.entries))
	for _, e := range u.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.entry.CreatedAt.Equal(b.entry.CreatedAt) {
			return a.seq < b.seq
		}
		return a.entry.CreatedAt.Before(b.entry.CreatedAt)
	})

	list := make([]backup.Latest, 0, len(entries))
	for _, e := range entries {
		list = append(list, backup.Latest{BackupID: e.entry.BackupID, CreatedAt: e.entry.CreatedAt})
	}
	return list, nil
}

// Delete не трогает указатель latest, даже если удалена последняя копия
func (r *BackupRepository) Delete(_ context.Context, userID string, backupIDs ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil
	}
	for _, id := range backupIDs {
		delete(u.entries, id)
	}
	return nil
}

// SessionRepository хранит сессии в памяти процесса
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]time.Time
	now      func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (r *SessionRepository) Create(_ context.Context, userID string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = expiresAt
	return nil
}

func (r *SessionRepository) HasActive(_ context.Context, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	expiresAt, ok := r.sessions[userID]
	return ok && expiresAt.After(r.now()), nil
}

func (r *SessionRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}
