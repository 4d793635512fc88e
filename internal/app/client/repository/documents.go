package repository

import (
	"context"

	"ezistra/internal/domain/profile"
	"ezistra/internal/infrastructure/storage/local"
)

type Documents struct {
	*local.Collection[profile.DocumentInfo]
}

func NewDocuments(store *local.Store) (*Documents, error) {
	c, err := local.NewCollection[profile.DocumentInfo](store, local.StoreDocuments)
	if err != nil {
		return nil, err
	}
	return &Documents{Collection: c}, nil
}

func (r *Documents) GetByStudentID(ctx context.Context, studentID string) ([]profile.DocumentInfo, error) {
	return r.FindByIndex(ctx, "studentId", studentID)
}

// GetByType - документы одного вида ("BAC", "CIN", ...)
func (r *Documents) GetByType(ctx context.Context, docType string) ([]profile.DocumentInfo, error) {
	return r.FindByIndex(ctx, "type", docType)
}
