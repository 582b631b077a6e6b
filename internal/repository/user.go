package repository

import (
	"context"
	"errors"

	"github.com/kasirhub/ppob-ledger/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUserNotFound = errors.New("USER_NOT_FOUND")

type UserRepository interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	// FindByIDForUpdate loads the user row under SELECT ... FOR UPDATE.
	// Must run inside a TxManager transaction.
	FindByIDForUpdate(ctx context.Context, id string) (model.User, error)
	UpdateBalance(ctx context.Context, id string, newBalance int64) error
}

type user struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &user{db: db}
}

func (r *user) FindByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := GetTx(ctx, r.db).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

func (r *user) FindByIDForUpdate(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := GetTx(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

func (r *user) UpdateBalance(ctx context.Context, id string, newBalance int64) error {
	return GetTx(ctx, r.db).Model(&model.User{}).
		Where("id = ?", id).
		Update("balance", newBalance).Error
}
