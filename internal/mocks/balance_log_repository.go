package mocks

import (
	"context"

	"github.com/kasirhub/ppob-ledger/internal/model"
	"github.com/kasirhub/ppob-ledger/internal/repository"
	"github.com/stretchr/testify/mock"
)

type BalanceLogRepository struct {
	mock.Mock
}

func (m *BalanceLogRepository) Create(ctx context.Context, log *model.BalanceLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *BalanceLogRepository) FindByID(ctx context.Context, id int64) (model.BalanceLog, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.BalanceLog), args.Error(1)
}

func (m *BalanceLogRepository) Update(ctx context.Context, log *model.BalanceLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *BalanceLogRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *BalanceLogRepository) List(ctx context.Context, q repository.BalanceLogQuery) ([]model.BalanceLog, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.BalanceLog), args.Get(1).(int64), args.Error(2)
}
