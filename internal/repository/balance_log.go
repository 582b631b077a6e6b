package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kasirhub/ppob-ledger/internal/model"
	"gorm.io/gorm"
)

var ErrBalanceLogNotFound = errors.New("BALANCE_LOG_NOT_FOUND")

type BalanceLogQuery struct {
	UserID   string
	Type     *model.LogType
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

type BalanceLogRepository interface {
	Create(ctx context.Context, log *model.BalanceLog) error
	FindByID(ctx context.Context, id int64) (model.BalanceLog, error)
	// Update rewrites amount, balance_after and description of an existing
	// entry. Only the manual log edit path may call this.
	Update(ctx context.Context, log *model.BalanceLog) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q BalanceLogQuery) ([]model.BalanceLog, int64, error)
}

type balanceLog struct {
	db *gorm.DB
}

func NewBalanceLogRepository(db *gorm.DB) BalanceLogRepository {
	return &balanceLog{db: db}
}

func (r *balanceLog) Create(ctx context.Context, log *model.BalanceLog) error {
	return GetTx(ctx, r.db).Create(log).Error
}

func (r *balanceLog) FindByID(ctx context.Context, id int64) (model.BalanceLog, error) {
	var log model.BalanceLog
	err := GetTx(ctx, r.db).Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.BalanceLog{}, ErrBalanceLogNotFound
		}
		return model.BalanceLog{}, err
	}
	return log, nil
}

func (r *balanceLog) Update(ctx context.Context, log *model.BalanceLog) error {
	res := GetTx(ctx, r.db).Model(&model.BalanceLog{}).
		Where("id = ?", log.ID).
		Updates(map[string]any{
			"amount":        log.Amount,
			"balance_after": log.BalanceAfter,
			"description":   log.Description,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBalanceLogNotFound
	}
	return nil
}

func (r *balanceLog) Delete(ctx context.Context, id int64) error {
	res := GetTx(ctx, r.db).Where("id = ?", id).Delete(&model.BalanceLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBalanceLogNotFound
	}
	return nil
}

func (r *balanceLog) List(ctx context.Context, q BalanceLogQuery) ([]model.BalanceLog, int64, error) {
	db := GetTx(ctx, r.db).Model(&model.BalanceLog{})

	if q.UserID != "" {
		db = db.Where("user_id = ?", q.UserID)
	}
	if q.Type != nil {
		db = db.Where("type = ?", *q.Type)
	}
	if q.From != nil {
		db = db.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("created_at <= ?", *q.To)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.BalanceLog
	err := db.Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
