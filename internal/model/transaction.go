package model

import "time"

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSuccess, TransactionStatusFailed:
		return true
	}
	return false
}

// Transaction is created PENDING, settled to SUCCESS or FAILED, and may be
// corrected to any status afterwards by an operator.
type Transaction struct {
	ID              int64             `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	TransactionCode string            `gorm:"column:transaction_code;uniqueIndex;<-:create"`
	UserID          string            `gorm:"column:user_id;type:char(25);not null;<-:create"`
	ProductID       string            `gorm:"column:product_id;type:char(25);not null;<-:create"`
	CustomerNumber  string            `gorm:"column:customer_number;<-:create"`
	Amount          int64             `gorm:"column:amount;not null"`
	BasePrice       int64             `gorm:"column:base_price;not null"`
	Fee             int64             `gorm:"column:fee;not null;default:0"`
	Profit          int64             `gorm:"column:profit;not null;default:0"`
	Status          TransactionStatus `gorm:"column:status;type:enum('PENDING','SUCCESS','FAILED');default:'PENDING'"`
	ErrorMessage    *string           `gorm:"column:error_message;type:text;null"`
	CreatedAt       time.Time         `gorm:"column:created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (Transaction) TableName() string {
	return "transactions"
}
