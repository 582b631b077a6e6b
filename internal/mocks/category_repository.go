package mocks

import (
	"context"

	"github.com/kasirhub/ppob-ledger/internal/model"
	"github.com/stretchr/testify/mock"
)

type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) FindByName(ctx context.Context, name string) (model.Category, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.Category), args.Error(1)
}
