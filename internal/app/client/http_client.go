package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ezistra/internal/app/client/config"
	"ezistra/internal/domain/backup"

	"golang.org/x/exp/slog"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrTransport    = errors.New("transport error")
)

// StatusError - неуспешный ответ сервера
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ошибка сервера: статус %d: %s", e.Code, e.Message)
}

// UploadResult - ответ сервера на загрузку копии
type UploadResult struct {
	OK       bool   `json:"ok"`
	BackupID string `json:"backupId"`
}

// Transport переносит копии между клиентом и сервером
type Transport interface {
	Upload(ctx context.Context, blob *backup.Blob) (*UploadResult, error)
	Download(ctx context.Context, backupID string) (*backup.Blob, error)
	HealthCheck(ctx context.Context) error
}

type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

var _ Transport = (*httpClient)(nil)

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:    client,
		log:       log.With(slog.String("component", "sync_transport")),
		baseURL:   cfg.BaseURL(),
		token:     cfg.Token,
		userAgent: "Ezistra-Client/1.0",
	}
}

// SetToken устанавливает bearer-токен
func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/health", nil)
	if err != nil {
		return err
	}
	_, err = h.readResponse(resp)
	return err
}

// Upload отправляет копию на сервер
func (h *httpClient) Upload(ctx context.Context, blob *backup.Blob) (*UploadResult, error) {
	body, err := json.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("ошибка маршалинга копии: %w", err)
	}

	resp, err := h.doRequest(ctx, http.MethodPost, "/api/sync/upload", body)
	if err != nil {
		return nil, err
	}
	data, err := h.readResponse(resp)
	if err != nil {
		return nil, err
	}

	var result UploadResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа: %w", err)
	}
	return &result, nil
}

// Download получает копию по идентификатору или последнюю, если backupID пуст
func (h *httpClient) Download(ctx context.Context, backupID string) (*backup.Blob, error) {
	path := "/api/sync/download"
	if backupID != "" {
		path += "?" + url.Values{"backupId": {backupID}}.Encode()
	}

	resp, err := h.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	data, err := h.readResponse(resp)
	if err != nil {
		return nil, err
	}

	var blob backup.Blob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("%w: %v", backup.ErrInvalidBlob, err)
	}
	return &blob, nil
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return resp, nil
}

// readResponse читает тело и переводит статусы ошибок в ошибки клиента
func (h *httpClient) readResponse(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка чтения ответа: %v", ErrTransport, err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"size", len(body),
	)

	if resp.StatusCode < 300 {
		return body, nil
	}

	message := errorMessage(body)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", backup.ErrNotFound, message)
	}
	return nil, &StatusError{Code: resp.StatusCode, Message: message}
}

// errorMessage достает текст ошибки из {"error": ...} или problem+json
func errorMessage(body []byte) string {
	var errResp struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.Error != "":
			return errResp.Error
		case errResp.Detail != "":
			return errResp.Detail
		case errResp.Title != "":
			return errResp.Title
		}
	}
	return string(bytes.TrimSpace(body))
}

// IsNotFound сообщает, что на сервере нет запрошенной копии
func IsNotFound(err error) bool {
	return errors.Is(err, backup.ErrNotFound)
}
