package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/kasirhub/ppob-ledger/internal/constants"
	"github.com/kasirhub/ppob-ledger/internal/metrics"
	"github.com/kasirhub/ppob-ledger/internal/model"
	"github.com/kasirhub/ppob-ledger/internal/repository"
	"github.com/kasirhub/ppob-ledger/pkg/settlement"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// TransactionService owns the transaction lifecycle: creation with
// settlement, operator status correction and deletion with reversal.
// Balance effects always go through the ledger service, with the direction
// resolved from category polarity at the moment of mutation.
type TransactionService interface {
	Create(ctx context.Context, cmd CreateTransactionCommand) (model.Transaction, error)
	CorrectStatus(ctx context.Context, cmd CorrectStatusCommand) (model.Transaction, error)
	Delete(ctx context.Context, transactionID int64, actorID string) error
	List(ctx context.Context, q ListTransactionsQuery) ([]model.Transaction, int64, error)
}

type transactionService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	resolver    CategoryResolver
	ledger      LedgerService
	settler     settlement.Provider
	activity    ActivityRecorder
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

func NewTransactionService(userRepo repository.UserRepository, productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository, resolver CategoryResolver, ledger LedgerService,
	settler settlement.Provider, activity ActivityRecorder, logger *zap.Logger,
	metrics *metrics.Metrics) TransactionService {
	return &transactionService{
		userRepo:    userRepo,
		productRepo: productRepo,
		txRepo:      txRepo,
		resolver:    resolver,
		ledger:      ledger,
		settler:     settler,
		activity:    activity,
		logger:      logger,
		metrics:     metrics,
	}
}

func (s *transactionService) Create(ctx context.Context, cmd CreateTransactionCommand) (model.Transaction, error) {
	user, err := s.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Transaction{}, NewServiceError(constants.ErrCodeUserNotFound, err)
		}
		return model.Transaction{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	product, err := s.productRepo.FindByID(ctx, cmd.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return model.Transaction{}, NewServiceError(constants.ErrCodeProductNotFound, err)
		}
		return model.Transaction{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}
	if !product.IsActive {
		return model.Transaction{}, NewServiceError(constants.ErrCodeProductInactive,
			fmt.Errorf("product %s is not active", product.ID))
	}

	polarity, err := s.resolver.ResolvePolarity(ctx, product.Category)
	if err != nil {
		return model.Transaction{}, err
	}

	// Advisory check only; the ledger re-verifies under the row lock.
	if polarity == model.CategoryTypeExpense && user.Balance < product.BasePrice {
		return model.Transaction{}, NewServiceError(constants.ErrCodeInsufficientBalance, ErrInsufficientBalance)
	}

	createdAt := cmd.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx := model.Transaction{
		TransactionCode: generateTransactionCode(),
		UserID:          user.ID,
		ProductID:       product.ID,
		CustomerNumber:  cmd.CustomerNumber,
		Amount:          product.SellingPrice,
		BasePrice:       product.BasePrice,
		Fee:             product.Fee,
		Profit:          product.SellingPrice - product.BasePrice,
		Status:          model.TransactionStatusPending,
		CreatedAt:       createdAt,
	}

	for attempt := 0; ; attempt++ {
		err := s.txRepo.Create(ctx, &tx)
		if err == nil {
			break
		}
		// Millisecond-resolution codes can collide under load; take a fresh
		// one and try again.
		if repository.IsDuplicateKey(err) && attempt < 2 {
			tx.TransactionCode = generateTransactionCode()
			continue
		}
		s.metrics.RecordTransactionError("create", constants.ErrCodeOperationFailed)
		return model.Transaction{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	_, settleErr := s.settler.Settle(ctx, settlement.Request{
		TransactionCode: tx.TransactionCode,
		ProductCode:     product.Code,
		CustomerNumber:  cmd.CustomerNumber,
		Amount:          product.SellingPrice,
	})
	if settleErr != nil {
		// PENDING never moved funds, so a failed settlement needs no
		// compensation.
		msg := settleErr.Error()
		if err := s.txRepo.UpdateStatus(ctx, tx.ID, model.TransactionStatusFailed, &msg); err != nil {
			s.logger.Error("Failed to mark transaction as FAILED after settlement failure",
				zap.Int64("transaction_id", tx.ID), zap.Error(err))
			return model.Transaction{}, NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		tx.Status = model.TransactionStatusFailed
		tx.ErrorMessage = &msg
		s.metrics.RecordTransactionCreated(string(tx.Status))

		s.logger.Warn("Settlement failed, transaction marked FAILED",
			zap.String("transaction_code", tx.TransactionCode),
			zap.Error(settleErr))

		s.recordActivity(ctx, cmd.UserID, ActionCreateTransaction,
			fmt.Sprintf("Transaction %s failed at settlement: %s", tx.TransactionCode, msg))

		return tx, nil
	}

	mutation := applyMutationFor(polarity, &tx,
		fmt.Sprintf("Transaction %s - %s", product.Name, cmd.CustomerNumber))
	entry, err := s.ledger.ApplyMutation(ctx, mutation)
	if err != nil {
		// A race consumed the balance between the advisory check and the
		// locked mutation: no funds moved, settle the row as FAILED.
		msg := describeServiceError(err)
		if updErr := s.txRepo.UpdateStatus(ctx, tx.ID, model.TransactionStatusFailed, &msg); updErr != nil {
			s.logger.Error("Failed to mark transaction as FAILED after mutation failure",
				zap.Int64("transaction_id", tx.ID), zap.Error(updErr))
		}
		s.metrics.RecordTransactionError("create", serviceErrorCode(err))
		return model.Transaction{}, err
	}

	if err := s.txRepo.UpdateStatus(ctx, tx.ID, model.TransactionStatusSuccess, nil); err != nil {
		s.logger.Error("Critical: funds moved but status update failed, reversing mutation",
			zap.Int64("transaction_id", tx.ID), zap.Error(err))

		reversal := reverseMutationFor(polarity, &tx,
			fmt.Sprintf("Reversal: status update failed for %s", tx.TransactionCode))
		if _, revErr := s.ledger.ApplyMutation(ctx, reversal); revErr != nil {
			s.logger.Error("CRITICAL: reversal failed, ledger needs manual intervention",
				zap.Int64("transaction_id", tx.ID), zap.Error(revErr))
		}

		return model.Transaction{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	tx.Status = model.TransactionStatusSuccess
	s.metrics.RecordTransactionCreated(string(tx.Status))

	s.logger.Info("Transaction completed",
		zap.String("transaction_code", tx.TransactionCode),
		zap.String("user_id", user.ID),
		zap.String("polarity", string(polarity)),
		zap.Int64("base_price", tx.BasePrice),
		zap.Int64("balance_after", entry.BalanceAfter),
	)

	s.recordActivity(ctx, cmd.UserID, ActionCreateTransaction,
		fmt.Sprintf("Transaction %s - %s", tx.TransactionCode, product.Name))

	return tx, nil
}

func (s *transactionService) CorrectStatus(ctx context.Context, cmd CorrectStatusCommand) (model.Transaction, error) {
	if !cmd.NewStatus.Valid() {
		return model.Transaction{}, NewServiceError(constants.ErrCodeInvalidArgument,
			fmt.Errorf("unknown transaction status %q", cmd.NewStatus))
	}

	tx, err := s.txRepo.FindByID(ctx, cmd.TransactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return model.Transaction{}, NewServiceError(constants.ErrCodeTransactionNotFound, err)
		}
		return model.Transaction{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	// Same-status corrections are a no-op: no mutation, no log entry.
	if tx.Status == cmd.NewStatus {
		return tx, nil
	}

	polarity, err := s.polarityForTransaction(ctx, tx)
	if err != nil {
		return model.Transaction{}, err
	}

	oldStatus := tx.Status
	switch {
	case (oldStatus == model.TransactionStatusSuccess || oldStatus == model.TransactionStatusPending) &&
		cmd.NewStatus == model.TransactionStatusFailed:
		reversal := reverseMutationFor(polarity, &tx,
			fmt.Sprintf("Refund for failed transaction %s", tx.TransactionCode))
		if _, err := s.ledger.ApplyMutation(ctx, reversal); err != nil {
			return model.Transaction{}, err
		}

	case oldStatus == model.TransactionStatusFailed && cmd.NewStatus == model.TransactionStatusSuccess:
		mutation := applyMutationFor(polarity, &tx,
			fmt.Sprintf("Manual success %s", tx.TransactionCode))
		if _, err := s.ledger.ApplyMutation(ctx, mutation); err != nil {
			return model.Transaction{}, err
		}

	default:
		// PENDING<->SUCCESS moves no funds: a PENDING transaction never
		// debited and SUCCESS already did.
	}

	var note *string
	if cmd.Note != "" {
		note = &cmd.Note
	}
	if err := s.txRepo.UpdateStatus(ctx, tx.ID, cmd.NewStatus, note); err != nil {
		s.logger.Error("Critical: compensating mutation applied but status update failed",
			zap.Int64("transaction_id", tx.ID),
			zap.String("old_status", string(oldStatus)),
			zap.String("new_status", string(cmd.NewStatus)),
			zap.Error(err))
		return model.Transaction{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	tx.Status = cmd.NewStatus
	if note != nil {
		tx.ErrorMessage = note
	}

	s.recordActivity(ctx, cmd.ActorID, ActionUpdateTransaction,
		fmt.Sprintf("Update TRX %s: %s -> %s", tx.TransactionCode, oldStatus, cmd.NewStatus))

	return tx, nil
}

func (s *transactionService) Delete(ctx context.Context, transactionID int64, actorID string) error {
	tx, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return NewServiceError(constants.ErrCodeTransactionNotFound, err)
		}
		return NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	if tx.Status == model.TransactionStatusSuccess {
		polarity, err := s.polarityForTransaction(ctx, tx)
		if err != nil {
			return err
		}

		// The original TRANSACTION/DEPOSIT entry stays in the ledger; the
		// compensating entry references the same transaction id so the pair
		// nets to zero.
		reversal := reverseMutationFor(polarity, &tx,
			fmt.Sprintf("Refund: deleted transaction %s", tx.TransactionCode))
		if _, err := s.ledger.ApplyMutation(ctx, reversal); err != nil {
			return err
		}
	}

	if err := s.txRepo.Delete(ctx, tx.ID); err != nil {
		s.logger.Error("Failed to delete transaction after reversal",
			zap.Int64("transaction_id", tx.ID), zap.Error(err))
		return NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.recordActivity(ctx, actorID, ActionDeleteTransaction,
		fmt.Sprintf("Deleted transaction %s", tx.TransactionCode))

	return nil
}

func (s *transactionService) List(ctx context.Context, q ListTransactionsQuery) ([]model.Transaction, int64, error) {
	query := repository.TransactionQuery{
		Search:   q.Search,
		Page:     normalizePage(q.Page),
		PageSize: normalizePageSize(q.PageSize),
	}

	if q.Status != "" {
		status := model.TransactionStatus(q.Status)
		if !status.Valid() {
			return nil, 0, NewServiceError(constants.ErrCodeInvalidArgument,
				fmt.Errorf("unknown transaction status %q", q.Status))
		}
		query.Status = &status
	}

	txs, total, err := s.txRepo.List(ctx, query)
	if err != nil {
		return nil, 0, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return txs, total, nil
}

// polarityForTransaction re-resolves category polarity from the product at
// the moment of correction or reversal. Products deleted since the
// transaction fall back to the EXPENSE default.
func (s *transactionService) polarityForTransaction(ctx context.Context, tx model.Transaction) (model.CategoryType, error) {
	product, err := s.productRepo.FindByID(ctx, tx.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return model.CategoryTypeExpense, nil
		}
		return "", NewServiceError(constants.ErrCodeOperationFailed, err)
	}
	return s.resolver.ResolvePolarity(ctx, product.Category)
}

func (s *transactionService) recordActivity(ctx context.Context, actorID, action, details string) {
	s.activity.Record(ctx, ActivityCommand{
		ActorID: actorID,
		Action:  action,
		Module:  ModuleTransaction,
		Details: details,
	})
}

// applyMutationFor builds the fund movement for a settled transaction:
// EXPENSE categories debit the base price, INCOME categories credit it.
func applyMutationFor(polarity model.CategoryType, tx *model.Transaction, description string) MutationCommand {
	cmd := MutationCommand{
		UserID:      tx.UserID,
		Amount:      tx.BasePrice,
		Description: description,
		ReferenceID: &tx.ID,
	}
	if polarity == model.CategoryTypeIncome {
		cmd.Type = model.LogTypeDeposit
		cmd.Direction = model.DirectionCredit
	} else {
		cmd.Type = model.LogTypeTransaction
		cmd.Direction = model.DirectionDebit
	}
	return cmd
}

// reverseMutationFor builds the exact inverse of applyMutationFor. Debit
// reversals of INCOME transactions may take the balance negative; blocking
// them would leave the ledger out of step with the transaction state.
func reverseMutationFor(polarity model.CategoryType, tx *model.Transaction, description string) MutationCommand {
	cmd := MutationCommand{
		UserID:      tx.UserID,
		Amount:      tx.BasePrice,
		Description: description,
		ReferenceID: &tx.ID,
	}
	if polarity == model.CategoryTypeIncome {
		cmd.Type = model.LogTypeWithdrawal
		cmd.Direction = model.DirectionDebit
		cmd.AllowNegative = true
	} else {
		cmd.Type = model.LogTypeRefund
		cmd.Direction = model.DirectionCredit
	}
	return cmd
}

func generateTransactionCode() string {
	return fmt.Sprintf("TRX%d%03d", time.Now().UnixMilli(), rand.IntN(1000))
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePageSize(size int) int {
	if size < 1 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

func describeServiceError(err error) string {
	var svcErr Error
	if errors.As(err, &svcErr) {
		if msg := constants.GetErrorMessage(svcErr.Code); msg != "" {
			return msg
		}
	}
	return err.Error()
}

func serviceErrorCode(err error) string {
	var svcErr Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return constants.ErrCodeOperationFailed
}
