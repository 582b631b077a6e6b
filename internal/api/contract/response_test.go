package contract_test

import (
	"testing"

	"github.com/kasirhub/ppob-ledger/internal/api/contract"
	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	t.Run("computes total pages with remainder", func(t *testing.T) {
		p := contract.NewPagination(2, 10, 25)

		assert.Equal(t, 2, p.Page)
		assert.Equal(t, 10, p.Limit)
		assert.Equal(t, int64(25), p.Total)
		assert.Equal(t, int64(3), p.TotalPages)
	})

	t.Run("computes total pages on exact multiples", func(t *testing.T) {
		p := contract.NewPagination(1, 10, 30)

		assert.Equal(t, int64(3), p.TotalPages)
	})

	t.Run("clamps a zero limit instead of dividing by it", func(t *testing.T) {
		p := contract.NewPagination(1, 0, 10)

		assert.Equal(t, 1, p.Limit)
		assert.Equal(t, int64(10), p.TotalPages)
	})

	t.Run("clamps a non positive page", func(t *testing.T) {
		p := contract.NewPagination(0, 10, 5)

		assert.Equal(t, 1, p.Page)
	})

	t.Run("handles an empty result set", func(t *testing.T) {
		p := contract.NewPagination(1, 10, 0)

		assert.Equal(t, int64(0), p.TotalPages)
	})
}
