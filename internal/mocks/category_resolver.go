package mocks

import (
	"context"

	"github.com/kasirhub/ppob-ledger/internal/model"
	"github.com/stretchr/testify/mock"
)

type CategoryResolver struct {
	mock.Mock
}

func (m *CategoryResolver) ResolvePolarity(ctx context.Context, name string) (model.CategoryType, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.CategoryType), args.Error(1)
}
