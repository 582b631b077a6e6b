package mocks

import (
	"context"

	"github.com/kasirhub/ppob-ledger/internal/model"
	"github.com/kasirhub/ppob-ledger/internal/repository"
	"github.com/stretchr/testify/mock"
)

type TransactionRepository struct {
	mock.Mock
}

func (m *TransactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *TransactionRepository) FindByID(ctx context.Context, id int64) (model.Transaction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Transaction), args.Error(1)
}

func (m *TransactionRepository) UpdateStatus(ctx context.Context, id int64, status model.TransactionStatus, errorMessage *string) error {
	args := m.Called(ctx, id, status, errorMessage)
	return args.Error(0)
}

func (m *TransactionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TransactionRepository) List(ctx context.Context, q repository.TransactionQuery) ([]model.Transaction, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Transaction), args.Get(1).(int64), args.Error(2)
}
