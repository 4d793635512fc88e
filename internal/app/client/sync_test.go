package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	clientbackup "ezistra/internal/app/client/backup"
	"ezistra/internal/app/client/config"
	"ezistra/internal/app/client/repository"
	"ezistra/internal/domain/backup"
	"ezistra/internal/domain/profile"
	"ezistra/internal/infrastructure/storage/local"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeServer хранит последнюю загруженную копию в памяти
type fakeServer struct {
	token   string
	backups map[string][]byte
	latest  string
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+f.token {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid session"}`))
		return
	}

	switch r.URL.Path {
	case "/api/sync/upload":
		body, _ := io.ReadAll(r.Body)
		var head struct {
			BackupID string `json:"backupId"`
		}
		_ = json.Unmarshal(body, &head)
		f.backups[head.BackupID] = body
		f.latest = head.BackupID
		_ = json.NewEncoder(w).Encode(UploadResult{OK: true, BackupID: head.BackupID})
	case "/api/sync/download":
		id := r.URL.Query().Get("backupId")
		if id == "" {
			id = f.latest
		}
		data, ok := f.backups[id]
		if !ok {
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"title":"Not Found","status":404,"detail":"Backup not found"}`))
			return
		}
		_, _ = w.Write(data)
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, token string) *httpClient {
	t.Helper()
	cfg := &config.Config{
		ServerAddress:  strings.TrimPrefix(srv.URL, "http://"),
		Token:          token,
		RequestTimeout: 5 * time.Second,
	}
	return NewHTTPClient(cfg, discardLogger())
}

func newTestSync(t *testing.T, transport Transport) (*SyncService, *repository.Set) {
	t.Helper()
	store, err := local.Open(context.Background(), filepath.Join(t.TempDir(), "data.db"), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	set, err := repository.NewSet(store, nil)
	require.NoError(t, err)

	serializer := clientbackup.NewSerializer(store, "laptop", discardLogger())
	return NewSyncService(serializer, transport, discardLogger()), set
}

func TestSyncService_PushPullRestore(t *testing.T) {
	ctx := context.Background()
	fake := &fakeServer{token: "t1", backups: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	source, sourceRepos := newTestSync(t, newTestClient(t, srv, "t1"))
	_, err := sourceRepos.PersonalInfo.Add(ctx, profile.PersonalInfo{CNE: "CNE1", FirstName: "Ana"})
	require.NoError(t, err)

	uploaded, err := source.Push(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, uploaded.OK)
	assert.Equal(t, "b1", uploaded.BackupID)

	target, targetRepos := newTestSync(t, newTestClient(t, srv, "t1"))
	pulled, err := target.Pull(ctx, "", true)
	require.NoError(t, err)
	assert.Equal(t, "b1", pulled.Blob.BackupID)
	assert.Equal(t, "laptop", pulled.Blob.ClientID)
	require.NotNil(t, pulled.Report)
	assert.Equal(t, 1, pulled.Report.Restored[local.StorePersonalInfo])

	ana, err := targetRepos.PersonalInfo.FindByCNE(ctx, "CNE1")
	require.NoError(t, err)
	require.NotNil(t, ana)
	assert.Equal(t, "Ana", ana.FirstName)

	stats := source.Stats()
	assert.Equal(t, 1, stats.TotalUploads)
	assert.Equal(t, "b1", stats.LastBackupID)
}

func TestSyncService_PullWithoutRestore(t *testing.T) {
	ctx := context.Background()
	fake := &fakeServer{token: "t1", backups: map[string][]byte{
		"b1": []byte(`{"backupId":"b1","createdAt":"2025-10-14T09:30:00Z","stores":{"users":[{"id":"1","name":"x"}]}}`),
	}, latest: "b1"}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	svc, repos := newTestSync(t, newTestClient(t, srv, "t1"))
	pulled, err := svc.Pull(ctx, "b1", false)
	require.NoError(t, err)
	assert.Nil(t, pulled.Report)
	assert.Len(t, pulled.Blob.Stores[local.StoreUsers], 1)

	count, err := repos.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	fake := &fakeServer{token: "t1", backups: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	_, err := newTestClient(t, srv, "wrong").Download(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Invalid session")

	_, err = newTestClient(t, srv, "t1").Download(ctx, "missing")
	assert.ErrorIs(t, err, backup.ErrNotFound)
	assert.Contains(t, err.Error(), "Backup not found")
}

func TestHTTPClient_DownloadQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"backupId":"a b","stores":{}}`))
	}))
	defer srv.Close()

	blob, err := newTestClient(t, srv, "").Download(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "backupId=a+b", gotQuery)
	assert.Equal(t, "a b", blob.BackupID)
}

func TestHTTPClient_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, "").Download(context.Background(), "")
	assert.ErrorIs(t, err, backup.ErrInvalidBlob)
}

func TestWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		failures  int32
		retries   int
		wantErr   bool
		wantCalls int32
	}{
		{name: "recovers after 5xx", status: http.StatusServiceUnavailable, failures: 2, retries: 3, wantCalls: 3},
		{name: "gives up after limit", status: http.StatusBadGateway, failures: 5, retries: 2, wantErr: true, wantCalls: 3},
		{name: "no retry on 4xx", status: http.StatusBadRequest, failures: 5, retries: 3, wantErr: true, wantCalls: 1},
		{name: "disabled", status: http.StatusServiceUnavailable, failures: 1, retries: 0, wantErr: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) <= tt.failures {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(`{"error":"try later"}`))
					return
				}
				_, _ = w.Write([]byte(`{"ok":true,"backupId":"b1"}`))
			}))
			defer srv.Close()

			transport := WithRetry(newTestClient(t, srv, ""), tt.retries, time.Millisecond, discardLogger())
			result, err := transport.Upload(context.Background(), &backup.Blob{BackupID: "b1"})

			if tt.wantErr {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, tt.status, statusErr.Code)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "b1", result.BackupID)
			}
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestWithRetry_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(t, srv, "")
	srv.Close()

	err := WithRetry(client, 2, time.Millisecond, discardLogger()).HealthCheck(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestSyncService_RejectsConcurrentRuns(t *testing.T) {
	svc, _ := newTestSync(t, nil)
	require.NoError(t, svc.begin())
	defer svc.end()

	_, err := svc.Push(context.Background(), "")
	assert.ErrorIs(t, err, ErrSyncInProgress)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("%w: Backup not found", backup.ErrNotFound)))
	assert.False(t, IsNotFound(ErrUnauthorized))
	assert.False(t, IsNotFound(nil))
}
