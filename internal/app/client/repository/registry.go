package repository

import (
	"fmt"
	"time"

	"ezistra/internal/infrastructure/storage/local"
)

// Set - реестр репозиториев приложения. Строится один раз на открытом хранилище
// и передается вызывающим; все репозитории делят одно соединение.
type Set struct {
	Store           *local.Store
	Users           *Users
	Documents       *Documents
	Address         *Address
	University      *University
	HigherEducation *HigherEducation
	Complementary   *Complementary
	Baccalaureat    *Baccalaureat
	PersonalInfo    *PersonalInfo
}

// NewSet собирает все репозитории. now задает часы для выборок по учебному году.
func NewSet(store *local.Store, now func() time.Time) (*Set, error) {
	var (
		set = &Set{Store: store}
		err error
	)

	if set.Users, err = NewUsers(store); err != nil {
		return nil, fmt.Errorf("users repository: %w", err)
	}
	if set.Documents, err = NewDocuments(store); err != nil {
		return nil, fmt.Errorf("documents repository: %w", err)
	}
	if set.Address, err = NewAddress(store); err != nil {
		return nil, fmt.Errorf("address repository: %w", err)
	}
	if set.University, err = NewUniversity(store, now); err != nil {
		return nil, fmt.Errorf("university repository: %w", err)
	}
	if set.HigherEducation, err = NewHigherEducation(store); err != nil {
		return nil, fmt.Errorf("higher education repository: %w", err)
	}
	if set.Complementary, err = NewComplementary(store); err != nil {
		return nil, fmt.Errorf("complementary repository: %w", err)
	}
	if set.Baccalaureat, err = NewBaccalaureat(store); err != nil {
		return nil, fmt.Errorf("baccalaureat repository: %w", err)
	}
	if set.PersonalInfo, err = NewPersonalInfo(store); err != nil {
		return nil, fmt.Errorf("personal info repository: %w", err)
	}

	return set, nil
}

func first[T any](items []T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}
