package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kasirhub/ppob-ledger/internal/constants"
	"github.com/kasirhub/ppob-ledger/internal/metrics"
	"github.com/kasirhub/ppob-ledger/internal/model"
	"github.com/kasirhub/ppob-ledger/internal/repository"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	mutationMaxRetries   = 3
	mutationRetryBackoff = 50 * time.Millisecond
)

var ErrInsufficientBalance = errors.New("INSUFFICIENT_BALANCE")

// LedgerService is the single choke point for balance changes. Every
// mutation locks the user row, re-checks funds, writes the new balance and
// appends exactly one matching log entry inside one storage transaction.
type LedgerService interface {
	ApplyMutation(ctx context.Context, cmd MutationCommand) (model.BalanceLog, error)
}

type ledgerService struct {
	txManager repository.TxManager
	userRepo  repository.UserRepository
	logRepo   repository.BalanceLogRepository
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewLedgerService(txManager repository.TxManager, userRepo repository.UserRepository,
	logRepo repository.BalanceLogRepository, logger *zap.Logger, metrics *metrics.Metrics) LedgerService {
	return &ledgerService{txManager: txManager, userRepo: userRepo, logRepo: logRepo,
		logger: logger, metrics: metrics}
}

func (s *ledgerService) ApplyMutation(ctx context.Context, cmd MutationCommand) (model.BalanceLog, error) {
	if cmd.Amount <= 0 {
		return model.BalanceLog{}, NewServiceError(constants.ErrCodeInvalidArgument,
			fmt.Errorf("mutation amount must be positive, got %d", cmd.Amount))
	}
	if !cmd.Type.Valid() {
		return model.BalanceLog{}, NewServiceError(constants.ErrCodeInvalidArgument,
			fmt.Errorf("unknown log type %q", cmd.Type))
	}
	if cmd.Direction != model.DirectionCredit && cmd.Direction != model.DirectionDebit {
		return model.BalanceLog{}, NewServiceError(constants.ErrCodeInvalidArgument,
			fmt.Errorf("unknown direction %q", cmd.Direction))
	}
	if cmd.Type != model.LogTypeAdjustment {
		credit := cmd.Direction == model.DirectionCredit
		if cmd.Type.IsCredit() != credit {
			return model.BalanceLog{}, NewServiceError(constants.ErrCodeInvalidArgument,
				fmt.Errorf("direction %s does not match log type %s", cmd.Direction, cmd.Type))
		}
	}

	createdAt := cmd.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var entry model.BalanceLog
	err := runAtomic(ctx, s.txManager, func(ctx context.Context) error {
		u, err := s.userRepo.FindByIDForUpdate(ctx, cmd.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return NewServiceError(constants.ErrCodeUserNotFound, err)
			}
			return err
		}

		newBalance := u.Balance
		if cmd.Direction == model.DirectionCredit {
			newBalance += cmd.Amount
		} else {
			// Authoritative funds check: the locked row is the truth, not
			// whatever the caller read earlier.
			if !cmd.AllowNegative && u.Balance < cmd.Amount {
				return NewServiceError(constants.ErrCodeInsufficientBalance, ErrInsufficientBalance)
			}
			newBalance -= cmd.Amount
		}

		if err := s.userRepo.UpdateBalance(ctx, u.ID, newBalance); err != nil {
			return err
		}

		entry = model.BalanceLog{
			UserID:        u.ID,
			Type:          cmd.Type,
			Amount:        cmd.Amount,
			BalanceBefore: u.Balance,
			BalanceAfter:  newBalance,
			Description:   cmd.Description,
			ReferenceID:   cmd.ReferenceID,
			CreatedAt:     createdAt,
		}

		return s.logRepo.Create(ctx, &entry)
	})

	if err != nil {
		s.metrics.RecordMutationError(string(cmd.Type))
		return model.BalanceLog{}, mapLedgerError(err)
	}

	s.metrics.RecordBalanceMutation(string(cmd.Type), string(cmd.Direction))
	s.metrics.UpdateUserBalance(cmd.UserID, entry.BalanceAfter)

	s.logger.Info("Balance mutated",
		zap.String("user_id", cmd.UserID),
		zap.String("type", string(cmd.Type)),
		zap.String("direction", string(cmd.Direction)),
		zap.Int64("amount", cmd.Amount),
		zap.Int64("balance_before", entry.BalanceBefore),
		zap.Int64("balance_after", entry.BalanceAfter),
	)

	return entry, nil
}

// runAtomic executes fn inside a storage transaction and retries a bounded
// number of times when the transaction aborts on row-lock contention.
func runAtomic(ctx context.Context, tm repository.TxManager, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(mutationMaxRetries, retry.NewConstant(mutationRetryBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := tm.WithTx(ctx, fn)
		if err != nil && repository.IsLockContention(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func mapLedgerError(err error) error {
	var svcErr Error
	if errors.As(err, &svcErr) {
		return err
	}
	if repository.IsLockContention(err) {
		return NewServiceError(constants.ErrCodeConflict, err)
	}
	return NewServiceError(constants.ErrCodeOperationFailed, err)
}
