package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ezistra/internal/domain/session"
	"ezistra/internal/domain/sync"
	"ezistra/internal/infrastructure/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type testServer struct {
	*httptest.Server
	sessions *session.Service
}

func newTestServer(t *testing.T, maxBytes int64) *testServer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens := session.NewTokenConfig("test-secret", "", "", time.Hour)
	sessions := session.NewService(memory.NewSessionRepository(), tokens, time.Hour, log)
	backups := sync.NewService(memory.NewBackupRepository(), log, &sync.ServiceConfig{MaxBackupBytes: maxBytes})

	mux := New(Services{Session: sessions, Sync: backups}, Options{CORSOrigins: []string{"*"}, MaxBackupBytes: maxBytes}, log)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, sessions: sessions}
}

func (s *testServer) login(t *testing.T, userID string) string {
	t.Helper()
	token, err := s.sessions.Create(context.Background(), userID)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func detail(t *testing.T, data []byte) string {
	t.Helper()
	var problem struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(data, &problem))
	return problem.Detail
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 0)

	resp, data := srv.do(t, http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"OK"}`, string(data))
}

func TestSync_UploadDownloadRoundTrip(t *testing.T) {
	srv := newTestServer(t, 0)
	token := srv.login(t, "A")
	blob := `{"backupId":"b1","createdAt":"2025-10-14T09:30:00Z","stores":{"users":[{"id":"1","name":"Ana"}]}}`

	resp, data := srv.do(t, http.MethodPost, "/api/sync/upload", token, blob)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.JSONEq(t, `{"ok":true,"backupId":"b1"}`, string(data))

	resp, data = srv.do(t, http.MethodGet, "/api/sync/download", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, blob, string(data))

	resp, data = srv.do(t, http.MethodGet, "/api/sync/download?backupId=b1", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, blob, string(data))
}

func TestSync_DownloadNotFound(t *testing.T) {
	srv := newTestServer(t, 0)
	token := srv.login(t, "A")

	resp, data := srv.do(t, http.MethodGet, "/api/sync/download", token, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No backup found for user", detail(t, data))

	srv.do(t, http.MethodPost, "/api/sync/upload", token, `{"backupId":"b1"}`)

	resp, data = srv.do(t, http.MethodGet, "/api/sync/download?backupId=missing", token, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Backup not found", detail(t, data))
}

func TestSync_LatestIsPerUser(t *testing.T) {
	srv := newTestServer(t, 0)
	tokenA := srv.login(t, "A")
	tokenB := srv.login(t, "B")

	srv.do(t, http.MethodPost, "/api/sync/upload", tokenA, `{"backupId":"b1"}`)
	srv.do(t, http.MethodPost, "/api/sync/upload", tokenB, `{"backupId":"b2"}`)

	_, data := srv.do(t, http.MethodGet, "/api/sync/download", tokenA, "")
	assert.JSONEq(t, `{"backupId":"b1"}`, string(data))

	_, data = srv.do(t, http.MethodGet, "/api/sync/download", tokenB, "")
	assert.JSONEq(t, `{"backupId":"b2"}`, string(data))

	resp, _ := srv.do(t, http.MethodGet, "/api/sync/download?backupId=b2", tokenA, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSync_UploadGeneratesBackupID(t *testing.T) {
	srv := newTestServer(t, 0)
	token := srv.login(t, "A")

	resp, data := srv.do(t, http.MethodPost, "/api/sync/upload", token, `{"stores":{}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var uploaded sync.UploadResponse
	require.NoError(t, json.Unmarshal(data, &uploaded))
	assert.True(t, strings.HasPrefix(uploaded.BackupID, "backup:"))

	_, data = srv.do(t, http.MethodGet, "/api/sync/download", token, "")
	var stored map[string]any
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, uploaded.BackupID, stored["backupId"])
}

func TestSync_UploadRejects(t *testing.T) {
	srv := newTestServer(t, 64)
	token := srv.login(t, "A")

	resp, _ := srv.do(t, http.MethodPost, "/api/sync/upload", token, `[1,2,3]`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/sync/upload", token, `{"backupId":"b1","stores":{"users":[`+strings.Repeat(`{},`, 30)+`{}]}}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestSync_Unauthorized(t *testing.T) {
	srv := newTestServer(t, 0)
	noSession, err := session.NewTokenConfig("test-secret", "", "", time.Hour).Generate("ghost")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{name: "missing header", header: "", message: "Authorization header required"},
		{name: "wrong scheme", header: "Basic abc", message: "Invalid authorization header format"},
		{name: "empty bearer", header: "Bearer ", message: "Invalid authorization header format"},
		{name: "bad token", header: "Bearer garbage", message: "Invalid token"},
		{name: "no session", header: "Bearer " + noSession, message: "Invalid session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/sync/download", nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			data, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.JSONEq(t, `{"error":"`+tt.message+`"}`, string(data))
		})
	}

	resp, _ := srv.do(t, http.MethodPost, "/api/sync/upload", "", `{"backupId":"b1"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
