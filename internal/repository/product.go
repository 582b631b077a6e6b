package repository

import (
	"context"
	"errors"

	"github.com/kasirhub/ppob-ledger/internal/model"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("PRODUCT_NOT_FOUND")

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (model.Product, error)
}

type product struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &product{db: db}
}

func (r *product) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := GetTx(ctx, r.db).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, err
	}
	return p, nil
}
