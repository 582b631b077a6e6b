package model

import "time"

type LogType string

const (
	LogTypeTopUp       LogType = "TOP_UP"
	LogTypeTransaction LogType = "TRANSACTION"
	LogTypeDeposit     LogType = "DEPOSIT"
	LogTypeRefund      LogType = "REFUND"
	LogTypeWithdrawal  LogType = "WITHDRAWAL"
	LogTypeAdjustment  LogType = "ADJUSTMENT"
)

func (t LogType) Valid() bool {
	switch t {
	case LogTypeTopUp, LogTypeTransaction, LogTypeDeposit, LogTypeRefund,
		LogTypeWithdrawal, LogTypeAdjustment:
		return true
	}
	return false
}

// IsCredit reports whether entries of this type add to the balance.
// ADJUSTMENT has no fixed direction; its sign comes from the entry itself.
func (t LogType) IsCredit() bool {
	switch t {
	case LogTypeTopUp, LogTypeRefund, LogTypeDeposit:
		return true
	}
	return false
}

type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// BalanceLog is one entry of the ledger. Amount is an unsigned magnitude;
// BalanceBefore and BalanceAfter bracket the mutation exactly.
type BalanceLog struct {
	ID            int64     `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	UserID        string    `gorm:"column:user_id;type:char(25);not null;index;<-:create"`
	Type          LogType   `gorm:"column:type;type:enum('TOP_UP','TRANSACTION','DEPOSIT','REFUND','WITHDRAWAL','ADJUSTMENT');not null;<-:create"`
	Amount        int64     `gorm:"column:amount;not null"`
	BalanceBefore int64     `gorm:"column:balance_before;not null;<-:create"`
	BalanceAfter  int64     `gorm:"column:balance_after;not null"`
	Description   string    `gorm:"column:description"`
	ReferenceID   *int64    `gorm:"column:reference_id;null;index;<-:create"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (BalanceLog) TableName() string {
	return "balance_logs"
}

// SignedAmount returns the entry's effect on the balance: positive for
// credits, negative for debits. ADJUSTMENT entries derive their sign from
// their own before/after bracket.
func (l *BalanceLog) SignedAmount() int64 {
	if l.Type == LogTypeAdjustment {
		return l.BalanceAfter - l.BalanceBefore
	}
	if l.Type.IsCredit() {
		return l.Amount
	}
	return -l.Amount
}
