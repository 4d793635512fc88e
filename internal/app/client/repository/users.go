package repository

import (
	"context"

	"ezistra/internal/domain/profile"
	"ezistra/internal/infrastructure/storage/local"
)

type Users struct {
	*local.Collection[profile.User]
}

func NewUsers(store *local.Store) (*Users, error) {
	c, err := local.NewCollection[profile.User](store, local.StoreUsers)
	if err != nil {
		return nil, err
	}
	return &Users{Collection: c}, nil
}

func (r *Users) FindByEmail(ctx context.Context, email string) (*profile.User, error) {
	return first(r.FindByIndex(ctx, "email", email))
}
