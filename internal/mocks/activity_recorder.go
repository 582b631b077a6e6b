package mocks

import (
	"context"

	"github.com/kasirhub/ppob-ledger/internal/service"
	"github.com/stretchr/testify/mock"
)

type ActivityRecorder struct {
	mock.Mock
}

func (m *ActivityRecorder) Record(ctx context.Context, cmd service.ActivityCommand) {
	m.Called(ctx, cmd)
}
