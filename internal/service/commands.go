package service

import (
	"time"

	"github.com/kasirhub/ppob-ledger/internal/model"
)

type CreateTransactionCommand struct {
	UserID         string
	ProductID      string
	CustomerNumber string
	// Timestamp backdates the transaction; zero means now.
	Timestamp time.Time
}

type CorrectStatusCommand struct {
	TransactionID int64
	NewStatus     model.TransactionStatus
	Note          string
	ActorID       string
}

type ListTransactionsQuery struct {
	Status   string
	Search   string
	Page     int
	PageSize int
}

type TopUpCommand struct {
	UserID      string
	Amount      int64
	Description string
	Timestamp   time.Time
	ActorID     string
}

type EditLogCommand struct {
	LogID          int64
	NewAmount      *int64
	NewDescription *string
	ActorID        string
}

type ListLogsQuery struct {
	UserID   string
	Type     string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// MutationCommand describes one balance mutation. AllowNegative is decided
// by the caller: EXPENSE-class debits must keep it false, compensating
// debits for INCOME-class reversals set it true so the reversal always
// lands.
type MutationCommand struct {
	UserID        string
	Type          model.LogType
	Direction     model.Direction
	Amount        int64
	Description   string
	ReferenceID   *int64
	Timestamp     time.Time
	AllowNegative bool
}

type ActivityCommand struct {
	ActorID string
	Action  string
	Module  string
	Details string
}
