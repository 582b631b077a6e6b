package mocks

import (
	"context"

	"github.com/kasirhub/ppob-ledger/pkg/settlement"
	"github.com/stretchr/testify/mock"
)

type SettlementProvider struct {
	mock.Mock
}

func (m *SettlementProvider) Settle(ctx context.Context, req settlement.Request) (settlement.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(settlement.Result), args.Error(1)
}
