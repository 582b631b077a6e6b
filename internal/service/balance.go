package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kasirhub/ppob-ledger/internal/constants"
	"github.com/kasirhub/ppob-ledger/internal/metrics"
	"github.com/kasirhub/ppob-ledger/internal/model"
	"github.com/kasirhub/ppob-ledger/internal/repository"
	"go.uber.org/zap"
)

// BalanceService exposes the manual balance corrections: top-ups, log edits
// and log deletions, plus the read side of the ledger. Top-ups go through
// the ledger service; log edit and delete are the two audited exceptions
// that touch existing entries directly.
type BalanceService interface {
	TopUp(ctx context.Context, cmd TopUpCommand) (model.BalanceLog, error)
	EditLog(ctx context.Context, cmd EditLogCommand) (model.BalanceLog, error)
	DeleteLog(ctx context.Context, logID int64, reverseBalance bool, actorID string) error
	ListLogs(ctx context.Context, q ListLogsQuery) ([]model.BalanceLog, int64, error)
	GetBalance(ctx context.Context, userID string) (int64, error)
}

type balanceService struct {
	txManager repository.TxManager
	userRepo  repository.UserRepository
	logRepo   repository.BalanceLogRepository
	ledger    LedgerService
	activity  ActivityRecorder
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewBalanceService(txManager repository.TxManager, userRepo repository.UserRepository,
	logRepo repository.BalanceLogRepository, ledger LedgerService, activity ActivityRecorder,
	logger *zap.Logger, metrics *metrics.Metrics) BalanceService {
	return &balanceService{
		txManager: txManager,
		userRepo:  userRepo,
		logRepo:   logRepo,
		ledger:    ledger,
		activity:  activity,
		logger:    logger,
		metrics:   metrics,
	}
}

func (s *balanceService) TopUp(ctx context.Context, cmd TopUpCommand) (model.BalanceLog, error) {
	if cmd.Amount <= 0 {
		return model.BalanceLog{}, NewServiceError(constants.ErrCodeInvalidArgument,
			fmt.Errorf("top up amount must be positive, got %d", cmd.Amount))
	}

	description := cmd.Description
	if description == "" {
		description = fmt.Sprintf("Top up balance %d", cmd.Amount)
	}

	entry, err := s.ledger.ApplyMutation(ctx, MutationCommand{
		UserID:      cmd.UserID,
		Type:        model.LogTypeTopUp,
		Direction:   model.DirectionCredit,
		Amount:      cmd.Amount,
		Description: description,
		Timestamp:   cmd.Timestamp,
	})
	if err != nil {
		return model.BalanceLog{}, err
	}

	s.recordActivity(ctx, cmd.ActorID, ActionTopUp,
		fmt.Sprintf("Top up %d for user %s", cmd.Amount, cmd.UserID))

	return entry, nil
}

// EditLog re-applies the delta between the old and new magnitude to the
// user's balance and rewrites the entry's own amount and balanceAfter. This
// is the one place an existing entry is rewritten instead of appended.
func (s *balanceService) EditLog(ctx context.Context, cmd EditLogCommand) (model.BalanceLog, error) {
	if cmd.NewAmount == nil && cmd.NewDescription == nil {
		return model.BalanceLog{}, NewServiceError(constants.ErrCodeInvalidArgument,
			errors.New("nothing to update"))
	}
	if cmd.NewAmount != nil && *cmd.NewAmount <= 0 {
		return model.BalanceLog{}, NewServiceError(constants.ErrCodeInvalidArgument,
			fmt.Errorf("log amount must be positive, got %d", *cmd.NewAmount))
	}

	var (
		updated    model.BalanceLog
		adjustment int64
	)
	err := runAtomic(ctx, s.txManager, func(ctx context.Context) error {
		log, err := s.logRepo.FindByID(ctx, cmd.LogID)
		if err != nil {
			if errors.Is(err, repository.ErrBalanceLogNotFound) {
				return NewServiceError(constants.ErrCodeLogNotFound, err)
			}
			return err
		}

		u, err := s.userRepo.FindByIDForUpdate(ctx, log.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return NewServiceError(constants.ErrCodeUserNotFound, err)
			}
			return err
		}

		adjustment = 0
		if cmd.NewAmount != nil && *cmd.NewAmount != log.Amount {
			diff := *cmd.NewAmount - log.Amount
			if logEntryIsCredit(&log) {
				adjustment = diff
			} else {
				adjustment = -diff
			}

			if err := s.userRepo.UpdateBalance(ctx, u.ID, u.Balance+adjustment); err != nil {
				return err
			}

			log.Amount = *cmd.NewAmount
			log.BalanceAfter += adjustment
		}

		if cmd.NewDescription != nil {
			log.Description = *cmd.NewDescription
		}

		if err := s.logRepo.Update(ctx, &log); err != nil {
			return err
		}

		updated = log
		return nil
	})
	if err != nil {
		return model.BalanceLog{}, mapLedgerError(err)
	}

	s.logger.Info("Balance log rewritten",
		zap.Int64("log_id", cmd.LogID),
		zap.String("user_id", updated.UserID),
		zap.Int64("balance_adjustment", adjustment),
	)

	s.recordActivity(ctx, cmd.ActorID, ActionUpdateBalanceLog,
		fmt.Sprintf("Updated %s log %d, balance adjustment %d", updated.Type, cmd.LogID, adjustment))

	return updated, nil
}

// DeleteLog removes a ledger entry. With reverseBalance the entry's effect
// is undone first; without it only the history row disappears and the
// balance keeps the mutation, which callers must warn the operator about.
func (s *balanceService) DeleteLog(ctx context.Context, logID int64, reverseBalance bool, actorID string) error {
	if !reverseBalance {
		log, err := s.logRepo.FindByID(ctx, logID)
		if err != nil {
			if errors.Is(err, repository.ErrBalanceLogNotFound) {
				return NewServiceError(constants.ErrCodeLogNotFound, err)
			}
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if err := s.logRepo.Delete(ctx, logID); err != nil {
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		s.recordActivity(ctx, actorID, ActionDeleteBalanceLog,
			fmt.Sprintf("Deleted %s log %d (history only, balance untouched)", log.Type, logID))

		return nil
	}

	var (
		removed    model.BalanceLog
		newBalance int64
	)
	err := runAtomic(ctx, s.txManager, func(ctx context.Context) error {
		log, err := s.logRepo.FindByID(ctx, logID)
		if err != nil {
			if errors.Is(err, repository.ErrBalanceLogNotFound) {
				return NewServiceError(constants.ErrCodeLogNotFound, err)
			}
			return err
		}

		u, err := s.userRepo.FindByIDForUpdate(ctx, log.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return NewServiceError(constants.ErrCodeUserNotFound, err)
			}
			return err
		}

		newBalance = u.Balance - log.SignedAmount()
		if err := s.userRepo.UpdateBalance(ctx, u.ID, newBalance); err != nil {
			return err
		}

		if err := s.logRepo.Delete(ctx, logID); err != nil {
			return err
		}

		removed = log
		return nil
	})
	if err != nil {
		return mapLedgerError(err)
	}

	s.metrics.UpdateUserBalance(removed.UserID, newBalance)

	s.recordActivity(ctx, actorID, ActionDeleteBalanceLog,
		fmt.Sprintf("Deleted %s log %d and reversed %d", removed.Type, logID, removed.SignedAmount()))

	return nil
}

func (s *balanceService) ListLogs(ctx context.Context, q ListLogsQuery) ([]model.BalanceLog, int64, error) {
	query := repository.BalanceLogQuery{
		UserID:   q.UserID,
		From:     q.From,
		To:       q.To,
		Page:     normalizePage(q.Page),
		PageSize: normalizePageSize(q.PageSize),
	}

	if q.Type != "" {
		logType := model.LogType(q.Type)
		if !logType.Valid() {
			return nil, 0, NewServiceError(constants.ErrCodeInvalidArgument,
				fmt.Errorf("unknown log type %q", q.Type))
		}
		query.Type = &logType
	}

	logs, total, err := s.logRepo.List(ctx, query)
	if err != nil {
		return nil, 0, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return logs, total, nil
}

func (s *balanceService) GetBalance(ctx context.Context, userID string) (int64, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, NewServiceError(constants.ErrCodeUserNotFound, err)
		}
		return 0, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.metrics.UpdateUserBalance(u.ID, u.Balance)

	return u.Balance, nil
}

func (s *balanceService) recordActivity(ctx context.Context, actorID, action, details string) {
	s.activity.Record(ctx, ActivityCommand{
		ActorID: actorID,
		Action:  action,
		Module:  ModuleBalance,
		Details: details,
	})
}

// logEntryIsCredit decides the sign of an entry for delta math. ADJUSTMENT
// entries carry no fixed direction, so it comes from their own bracket.
func logEntryIsCredit(log *model.BalanceLog) bool {
	if log.Type == model.LogTypeAdjustment {
		return log.BalanceAfter >= log.BalanceBefore
	}
	return log.Type.IsCredit()
}
