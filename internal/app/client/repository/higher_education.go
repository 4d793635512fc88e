package repository

import (
	"context"

	"ezistra/internal/domain/profile"
	"ezistra/internal/infrastructure/storage/local"
)

type HigherEducation struct {
	*local.Collection[profile.HigherEducationInfo]
}

func NewHigherEducation(store *local.Store) (*HigherEducation, error) {
	c, err := local.NewCollection[profile.HigherEducationInfo](store, local.StoreHigherEducation)
	if err != nil {
		return nil, err
	}
	return &HigherEducation{Collection: c}, nil
}

func (r *HigherEducation) GetByStudentID(ctx context.Context, studentID string) ([]profile.HigherEducationInfo, error) {
	return r.FindByIndex(ctx, "studentId", studentID)
}

func (r *HigherEducation) GetByLevel(ctx context.Context, level string) ([]profile.HigherEducationInfo, error) {
	return r.FindByIndex(ctx, "level", level)
}

func (r *HigherEducation) GetByStudentIDAndLevel(ctx context.Context, studentID, level string) ([]profile.HigherEducationInfo, error) {
	return r.Filter(ctx, func(h profile.HigherEducationInfo) bool {
		return h.StudentID == studentID && h.Level == level
	})
}
