package settlement_test

import (
	"context"
	"testing"
	"time"

	"github.com/kasirhub/ppob-ledger/pkg/settlement"
	"github.com/stretchr/testify/assert"
)

func TestSimulatedProvider_Settle(t *testing.T) {
	t.Run("settles with a reference derived from the transaction code", func(t *testing.T) {
		provider := settlement.NewSimulatedProvider(settlement.Config{})

		result, err := provider.Settle(context.Background(), settlement.Request{
			TransactionCode: "TRX1700000000000123",
			ProductCode:     "PLN20",
			Amount:          5000,
		})

		assert.NoError(t, err)
		assert.Equal(t, "simulated", result.Provider)
		assert.Equal(t, "SIM-TRX1700000000000123", result.Reference)
	})

	t.Run("aborts when the context is cancelled during the delay", func(t *testing.T) {
		provider := settlement.NewSimulatedProvider(settlement.Config{Delay: time.Second})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := provider.Settle(ctx, settlement.Request{TransactionCode: "TRX1"})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
