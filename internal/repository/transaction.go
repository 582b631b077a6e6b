package repository

import (
	"context"
	"errors"

	"github.com/kasirhub/ppob-ledger/internal/model"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("TRANSACTION_NOT_FOUND")

type TransactionQuery struct {
	Status   *model.TransactionStatus
	Search   string
	Page     int
	PageSize int
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	FindByID(ctx context.Context, id int64) (model.Transaction, error)
	UpdateStatus(ctx context.Context, id int64, status model.TransactionStatus, errorMessage *string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q TransactionQuery) ([]model.Transaction, int64, error)
}

type transaction struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transaction{db: db}
}

func (r *transaction) Create(ctx context.Context, tx *model.Transaction) error {
	return GetTx(ctx, r.db).Create(tx).Error
}

func (r *transaction) FindByID(ctx context.Context, id int64) (model.Transaction, error) {
	var tx model.Transaction
	err := GetTx(ctx, r.db).Where("id = ?", id).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Transaction{}, ErrTransactionNotFound
		}
		return model.Transaction{}, err
	}
	return tx, nil
}

func (r *transaction) UpdateStatus(ctx context.Context, id int64, status model.TransactionStatus, errorMessage *string) error {
	updates := map[string]any{"status": status}
	if errorMessage != nil {
		updates["error_message"] = *errorMessage
	}

	res := GetTx(ctx, r.db).Model(&model.Transaction{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *transaction) Delete(ctx context.Context, id int64) error {
	res := GetTx(ctx, r.db).Where("id = ?", id).Delete(&model.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *transaction) List(ctx context.Context, q TransactionQuery) ([]model.Transaction, int64, error) {
	db := GetTx(ctx, r.db).Model(&model.Transaction{})

	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		db = db.Where("transaction_code LIKE ? OR customer_number LIKE ?", pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []model.Transaction
	err := db.Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&txs).Error
	if err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}
