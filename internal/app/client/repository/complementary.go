package repository

import (
	"context"

	"ezistra/internal/domain/profile"
	"ezistra/internal/infrastructure/storage/local"
)

type Complementary struct {
	*local.Collection[profile.ComplementaryInfo]
}

func NewComplementary(store *local.Store) (*Complementary, error) {
	c, err := local.NewCollection[profile.ComplementaryInfo](store, local.StoreComplementary)
	if err != nil {
		return nil, err
	}
	return &Complementary{Collection: c}, nil
}

func (r *Complementary) GetByStudentID(ctx context.Context, studentID string) ([]profile.ComplementaryInfo, error) {
	return r.FindByIndex(ctx, "studentId", studentID)
}

func (r *Complementary) GetByStatus(ctx context.Context, status string) ([]profile.ComplementaryInfo, error) {
	return r.FindByIndex(ctx, "studentStatus", status)
}

// GetActiveStudents - записи со статусом "inscrit"
func (r *Complementary) GetActiveStudents(ctx context.Context) ([]profile.ComplementaryInfo, error) {
	return r.withStatus(ctx, profile.StatusEnrolled)
}

// GetAlumni - записи со статусом "ancien étudiant"
func (r *Complementary) GetAlumni(ctx context.Context) ([]profile.ComplementaryInfo, error) {
	return r.withStatus(ctx, profile.StatusAlumni)
}

func (r *Complementary) withStatus(ctx context.Context, status string) ([]profile.ComplementaryInfo, error) {
	return r.Filter(ctx, func(c profile.ComplementaryInfo) bool {
		return c.StudentStatus == status
	})
}
