package repository

import (
	"context"
	"strings"

	"ezistra/internal/domain/profile"
	"ezistra/internal/infrastructure/storage/local"
)

// PersonalInfo - репозиторий личных данных студентов
type PersonalInfo struct {
	*local.Collection[profile.PersonalInfo]
}

func NewPersonalInfo(store *local.Store) (*PersonalInfo, error) {
	c, err := local.NewCollection[profile.PersonalInfo](store, local.StorePersonalInfo)
	if err != nil {
		return nil, err
	}
	return &PersonalInfo{Collection: c}, nil
}

// FindByCNE ищет студента по коду CNE
func (r *PersonalInfo) FindByCNE(ctx context.Context, cne string) (*profile.PersonalInfo, error) {
	return first(r.FindByIndex(ctx, "cne", cne))
}

// FindByCIN ищет студента по номеру CIN
func (r *PersonalInfo) FindByCIN(ctx context.Context, cin string) (*profile.PersonalInfo, error) {
	return first(r.FindByIndex(ctx, "cin", cin))
}

// SearchByName ищет подстроку в латинских именах без учета регистра и в арабских как есть
func (r *PersonalInfo) SearchByName(ctx context.Context, name string) ([]profile.PersonalInfo, error) {
	lower := strings.ToLower(name)
	return r.Filter(ctx, func(p profile.PersonalInfo) bool {
		return strings.Contains(strings.ToLower(p.FirstName), lower) ||
			strings.Contains(strings.ToLower(p.LastName), lower) ||
			strings.Contains(p.FirstNameAr, name) ||
			strings.Contains(p.LastNameAr, name)
	})
}
