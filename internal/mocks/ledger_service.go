package mocks

import (
	"context"

	"github.com/kasirhub/ppob-ledger/internal/model"
	"github.com/kasirhub/ppob-ledger/internal/service"
	"github.com/stretchr/testify/mock"
)

type LedgerService struct {
	mock.Mock
}

func (m *LedgerService) ApplyMutation(ctx context.Context, cmd service.MutationCommand) (model.BalanceLog, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(model.BalanceLog), args.Error(1)
}
