package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kasirhub/ppob-ledger/internal/constants"
	"github.com/kasirhub/ppob-ledger/internal/mocks"
	"github.com/kasirhub/ppob-ledger/internal/model"
	"github.com/kasirhub/ppob-ledger/internal/repository"
	"github.com/kasirhub/ppob-ledger/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCategoryResolver_ResolvePolarity(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("returns income for income categories", func(t *testing.T) {
		mockCategoryRepo := &mocks.CategoryRepository{}
		resolver := service.NewCategoryResolver(mockCategoryRepo, logger)

		mockCategoryRepo.On("FindByName", ctx, "Komisi").
			Return(model.Category{Name: "Komisi", Type: model.CategoryTypeIncome}, nil)

		polarity, err := resolver.ResolvePolarity(ctx, "Komisi")

		assert.NoError(t, err)
		assert.Equal(t, model.CategoryTypeIncome, polarity)
	})

	t.Run("returns expense for expense categories", func(t *testing.T) {
		mockCategoryRepo := &mocks.CategoryRepository{}
		resolver := service.NewCategoryResolver(mockCategoryRepo, logger)

		mockCategoryRepo.On("FindByName", ctx, "Pulsa").
			Return(model.Category{Name: "Pulsa", Type: model.CategoryTypeExpense}, nil)

		polarity, err := resolver.ResolvePolarity(ctx, "Pulsa")

		assert.NoError(t, err)
		assert.Equal(t, model.CategoryTypeExpense, polarity)
	})

	t.Run("defaults unknown categories to expense", func(t *testing.T) {
		mockCategoryRepo := &mocks.CategoryRepository{}
		resolver := service.NewCategoryResolver(mockCategoryRepo, logger)

		mockCategoryRepo.On("FindByName", ctx, "Misc").
			Return(model.Category{}, repository.ErrCategoryNotFound)

		polarity, err := resolver.ResolvePolarity(ctx, "Misc")

		assert.NoError(t, err)
		assert.Equal(t, model.CategoryTypeExpense, polarity)
	})

	t.Run("defaults untyped categories to expense", func(t *testing.T) {
		mockCategoryRepo := &mocks.CategoryRepository{}
		resolver := service.NewCategoryResolver(mockCategoryRepo, logger)

		mockCategoryRepo.On("FindByName", ctx, "Legacy").
			Return(model.Category{Name: "Legacy"}, nil)

		polarity, err := resolver.ResolvePolarity(ctx, "Legacy")

		assert.NoError(t, err)
		assert.Equal(t, model.CategoryTypeExpense, polarity)
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		mockCategoryRepo := &mocks.CategoryRepository{}
		resolver := service.NewCategoryResolver(mockCategoryRepo, logger)

		mockCategoryRepo.On("FindByName", ctx, "Pulsa").
			Return(model.Category{}, errors.New("connection reset"))

		_, err := resolver.ResolvePolarity(ctx, "Pulsa")

		var svcErr service.Error
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, constants.ErrCodeOperationFailed, svcErr.Code)
	})
}
