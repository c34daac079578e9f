package mocks

import (
	"context"

	"aaruto/internal/models"
)

type CredentialRepositoryMock struct {
	CreateFunc      func(ctx context.Context, u *models.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	ListFunc        func(ctx context.Context) ([]models.User, error)
}

func (m *CredentialRepositoryMock) Create(ctx context.Context, u *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *CredentialRepositoryMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *CredentialRepositoryMock) List(ctx context.Context) ([]models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}
