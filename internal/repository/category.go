package repository

import (
	"context"
	"errors"

	"github.com/kasirhub/ppob-ledger/internal/model"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("CATEGORY_NOT_FOUND")

type CategoryRepository interface {
	FindByName(ctx context.Context, name string) (model.Category, error)
}

type category struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &category{db: db}
}

func (r *category) FindByName(ctx context.Context, name string) (model.Category, error) {
	var c model.Category
	err := GetTx(ctx, r.db).Where("name = ?", name).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Category{}, ErrCategoryNotFound
		}
		return model.Category{}, err
	}
	return c, nil
}
