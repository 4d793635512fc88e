package repository

import (
	"context"
	"fmt"
	"time"

	"ezistra/internal/domain/profile"
	"ezistra/internal/infrastructure/storage/local"
)

type University struct {
	*local.Collection[profile.UniversityInfo]
	now func() time.Time
}

func NewUniversity(store *local.Store, now func() time.Time) (*University, error) {
	c, err := local.NewCollection[profile.UniversityInfo](store, local.StoreUniversity)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &University{Collection: c, now: now}, nil
}

func (r *University) GetByStudentID(ctx context.Context, studentID string) ([]profile.UniversityInfo, error) {
	return r.FindByIndex(ctx, "studentId", studentID)
}

func (r *University) GetByAcademicYear(ctx context.Context, academicYear string) ([]profile.UniversityInfo, error) {
	return r.FindByIndex(ctx, "academicYear", academicYear)
}

// CurrentAcademicYear - учебный год вида 2025/2026 по текущей дате
func (r *University) CurrentAcademicYear() string {
	year := r.now().Year()
	return fmt.Sprintf("%d/%d", year, year+1)
}

// GetCurrentYearInfo - запись студента за текущий учебный год
func (r *University) GetCurrentYearInfo(ctx context.Context, studentID string) (*profile.UniversityInfo, error) {
	academicYear := r.CurrentAcademicYear()
	return r.FindOne(ctx, func(u profile.UniversityInfo) bool {
		return u.StudentID == studentID && u.AcademicYear == academicYear
	})
}
