package sync

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"ezistra/internal/app/server/api/http/middleware/auth"
	"ezistra/internal/domain/backup"
	"ezistra/internal/domain/sync"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Upload(ctx context.Context, userID string, body []byte) (*sync.UploadResponse, error) {
	args := m.Called(ctx, userID, string(body))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sync.UploadResponse), args.Error(1)
}

func (m *MockService) Download(ctx context.Context, userID, backupID string) ([]byte, error) {
	args := m.Called(ctx, userID, backupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func asUser(userID string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithContext(ctx, context.WithValue(ctx.Context(), auth.UserIDKey, userID)))
	}
}

func newTestAPI(t *testing.T, service sync.Servicer) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	NewHandler(service, log, huma.Middlewares{asUser("u1")}, 0).SetupRoutes(api)
	return api
}

func TestHandler_UploadPassesJSONObject(t *testing.T) {
	body := `{"backupId":"b1","stores":{"documents":[{"id":1,"fileName":"x.pdf"}]}}`

	service := new(MockService)
	service.On("Upload", mock.Anything, "u1", body).
		Return(&sync.UploadResponse{OK: true, BackupID: "b1"}, nil)

	resp := newTestAPI(t, service).Post("/api/sync/upload", "Content-Type: application/json", strings.NewReader(body))

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"backupId":"b1"`)
	service.AssertExpectations(t)
}

func TestHandler_UploadErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{name: "invalid blob", err: backup.ErrInvalidBlob, wantStatus: http.StatusBadRequest, wantDetail: "Backup must be a JSON object"},
		{name: "too large", err: sync.ErrBackupTooLarge, wantStatus: http.StatusRequestEntityTooLarge, wantDetail: "Backup is too large"},
		{name: "storage failure", err: errors.New("redis down"), wantStatus: http.StatusInternalServerError, wantDetail: "Failed to upload backup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			service.On("Upload", mock.Anything, "u1", mock.Anything).Return(nil, tt.err)

			resp := newTestAPI(t, service).Post("/api/sync/upload", "Content-Type: application/json", strings.NewReader(`{"stores":{}}`))

			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantDetail)
		})
	}
}

func TestHandler_DownloadReturnsStoredBytes(t *testing.T) {
	stored := []byte(`{"stores":{},"backupId":"b1"}`)

	service := new(MockService)
	service.On("Download", mock.Anything, "u1", "b1").Return(stored, nil)
	service.On("Download", mock.Anything, "u1", "").Return(nil, backup.ErrNoBackupForUser)

	api := newTestAPI(t, service)

	resp := api.Get("/api/sync/download?backupId=b1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
	assert.Equal(t, string(stored), resp.Body.String())

	resp = api.Get("/api/sync/download")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "No backup found for user")
}
