package service

import "context"

const (
	ModuleTransaction = "TRANSACTION"
	ModuleBalance     = "BALANCE"
)

const (
	ActionCreateTransaction = "CREATE_TRANSACTION"
	ActionUpdateTransaction = "UPDATE_TRANSACTION"
	ActionDeleteTransaction = "DELETE_TRANSACTION"
	ActionTopUp             = "TOP_UP"
	ActionUpdateBalanceLog  = "UPDATE_BALANCE_LOG"
	ActionDeleteBalanceLog  = "DELETE_BALANCE_LOG"
)

// ActivityRecorder forwards audit events to the activity log collaborator.
// Recording is best-effort: implementations log failures and never fail the
// calling operation. Ledger writes are never routed through here.
type ActivityRecorder interface {
	Record(ctx context.Context, cmd ActivityCommand)
}
