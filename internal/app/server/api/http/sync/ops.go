package sync

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) uploadOp() huma.Operation {
	return huma.Operation{
		OperationID:  "sync-upload",
		Method:       http.MethodPost,
		Path:         "/api/sync/upload",
		Summary:      "Загрузить резервную копию",
		Description:  "Сохраняет полную копию клиентских хранилищ и делает ее последней для пользователя",
		Tags:         []string{"sync"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: h.maxBodyBytes,
		Middlewares:  h.middleware,
	}
}

func (h *Handler) downloadOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-download",
		Method:      http.MethodGet,
		Path:        "/api/sync/download",
		Summary:     "Получить резервную копию",
		Description: "Возвращает копию по backupId или последнюю загруженную",
		Tags:        []string{"sync"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
