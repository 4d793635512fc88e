package repository

import (
	"context"

	"ezistra/internal/domain/profile"
	"ezistra/internal/infrastructure/storage/local"
)

type Baccalaureat struct {
	*local.Collection[profile.BaccalaureatInfo]
}

func NewBaccalaureat(store *local.Store) (*Baccalaureat, error) {
	c, err := local.NewCollection[profile.BaccalaureatInfo](store, local.StoreBaccalaureat)
	if err != nil {
		return nil, err
	}
	return &Baccalaureat{Collection: c}, nil
}

func (r *Baccalaureat) GetByStudentID(ctx context.Context, studentID string) ([]profile.BaccalaureatInfo, error) {
	return r.FindByIndex(ctx, "studentId", studentID)
}

func (r *Baccalaureat) GetByYear(ctx context.Context, year string) ([]profile.BaccalaureatInfo, error) {
	return r.FindByIndex(ctx, "year", year)
}

func (r *Baccalaureat) GetByType(ctx context.Context, bacType string) ([]profile.BaccalaureatInfo, error) {
	return r.Filter(ctx, func(b profile.BaccalaureatInfo) bool {
		return b.BacType == bacType
	})
}

// GetHighPerformers - бакалавры с оценкой от 16
func (r *Baccalaureat) GetHighPerformers(ctx context.Context) ([]profile.BaccalaureatInfo, error) {
	return r.Filter(ctx, func(b profile.BaccalaureatInfo) bool {
		return b.Grade >= profile.HighPerformerGrade
	})
}
