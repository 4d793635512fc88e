package repository

import (
	"context"

	"ezistra/internal/domain/profile"
	"ezistra/internal/infrastructure/storage/local"
)

type Address struct {
	*local.Collection[profile.AddressInfo]
}

func NewAddress(store *local.Store) (*Address, error) {
	c, err := local.NewCollection[profile.AddressInfo](store, local.StoreAddress)
	if err != nil {
		return nil, err
	}
	return &Address{Collection: c}, nil
}

func (r *Address) GetByStudentID(ctx context.Context, studentID string) ([]profile.AddressInfo, error) {
	return r.FindByIndex(ctx, "studentId", studentID)
}

// GetStudentAddresses - адреса самого студента, без родительских
func (r *Address) GetStudentAddresses(ctx context.Context, studentID string) ([]profile.AddressInfo, error) {
	return r.byType(ctx, studentID, profile.AddressStudent)
}

func (r *Address) GetParentAddresses(ctx context.Context, studentID string) ([]profile.AddressInfo, error) {
	return r.byType(ctx, studentID, profile.AddressParent)
}

func (r *Address) byType(ctx context.Context, studentID, kind string) ([]profile.AddressInfo, error) {
	return r.Filter(ctx, func(a profile.AddressInfo) bool {
		return a.StudentID == studentID && a.Type == kind
	})
}

// FindByEmail ищет по основному email (email1)
func (r *Address) FindByEmail(ctx context.Context, email string) (*profile.AddressInfo, error) {
	return first(r.FindByIndex(ctx, "email", email))
}
