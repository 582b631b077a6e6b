package service

import (
	"context"
	"errors"

	"github.com/kasirhub/ppob-ledger/internal/constants"
	"github.com/kasirhub/ppob-ledger/internal/model"
	"github.com/kasirhub/ppob-ledger/internal/repository"
	"go.uber.org/zap"
)

// CategoryResolver maps a product category name to its balance polarity.
// An unknown or untyped category resolves to EXPENSE so legacy products
// stay usable; only storage failures are errors.
type CategoryResolver interface {
	ResolvePolarity(ctx context.Context, categoryName string) (model.CategoryType, error)
}

type categoryResolver struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

func NewCategoryResolver(categoryRepo repository.CategoryRepository, logger *zap.Logger) CategoryResolver {
	return &categoryResolver{categoryRepo: categoryRepo, logger: logger}
}

func (s *categoryResolver) ResolvePolarity(ctx context.Context, categoryName string) (model.CategoryType, error) {
	category, err := s.categoryRepo.FindByName(ctx, categoryName)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			s.logger.Debug("Category not seeded, defaulting to EXPENSE",
				zap.String("category", categoryName))
			return model.CategoryTypeExpense, nil
		}
		return "", NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	if category.Type == model.CategoryTypeIncome {
		return model.CategoryTypeIncome, nil
	}

	// Rows seeded before the type column existed carry an empty type.
	return model.CategoryTypeExpense, nil
}
