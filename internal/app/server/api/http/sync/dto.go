package sync

import (
	"ezistra/internal/domain/sync"
)

// uploadInput принимает тело как есть: копию проверяет сервис, а не схема huma
type uploadInput struct {
	RawBody []byte
}

type uploadOutput struct {
	Body sync.UploadResponse
}

type downloadInput struct {
	BackupID string `query:"backupId" doc:"Идентификатор копии; без него возвращается последняя"`
}

// downloadOutput отдает сохраненные байты копии без перекодирования
type downloadOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
