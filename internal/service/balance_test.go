package service_test

import (
	"context"
	"testing"

	"github.com/kasirhub/ppob-ledger/internal/constants"
	"github.com/kasirhub/ppob-ledger/internal/mocks"
	"github.com/kasirhub/ppob-ledger/internal/model"
	"github.com/kasirhub/ppob-ledger/internal/repository"
	"github.com/kasirhub/ppob-ledger/internal/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type balanceMocks struct {
	txManager *mocks.TxManager
	userRepo  *mocks.UserRepository
	logRepo   *mocks.BalanceLogRepository
	ledger    *mocks.LedgerService
	activity  *mocks.ActivityRecorder
}

func newBalanceService(t *testing.T) (service.BalanceService, *balanceMocks) {
	t.Helper()

	m := &balanceMocks{
		txManager: &mocks.TxManager{},
		userRepo:  &mocks.UserRepository{},
		logRepo:   &mocks.BalanceLogRepository{},
		ledger:    &mocks.LedgerService{},
		activity:  &mocks.ActivityRecorder{},
	}

	svc := service.NewBalanceService(m.txManager, m.userRepo, m.logRepo, m.ledger,
		m.activity, zap.NewNop(), testMetrics)

	return svc, m
}

func TestBalance_TopUp(t *testing.T) {
	ctx := context.Background()

	t.Run("credits the balance through the ledger", func(t *testing.T) {
		svc, m := newBalanceService(t)

		m.ledger.On("ApplyMutation", ctx, mock.MatchedBy(func(mut service.MutationCommand) bool {
			return mut.UserID == "user-1" &&
				mut.Type == model.LogTypeTopUp &&
				mut.Direction == model.DirectionCredit &&
				mut.Amount == 5000
		})).Return(model.BalanceLog{UserID: "user-1", Type: model.LogTypeTopUp,
			Amount: 5000, BalanceAfter: 5000}, nil)
		m.activity.On("Record", ctx, mock.Anything).Return()

		entry, err := svc.TopUp(ctx, service.TopUpCommand{
			UserID: "user-1",
			Amount: 5000,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(5000), entry.BalanceAfter)

		m.ledger.AssertExpectations(t)
	})

	t.Run("fills a default description", func(t *testing.T) {
		svc, m := newBalanceService(t)

		m.ledger.On("ApplyMutation", ctx, mock.MatchedBy(func(mut service.MutationCommand) bool {
			return mut.Description != ""
		})).Return(model.BalanceLog{}, nil)
		m.activity.On("Record", ctx, mock.Anything).Return()

		_, err := svc.TopUp(ctx, service.TopUpCommand{UserID: "user-1", Amount: 100})

		assert.NoError(t, err)
		m.ledger.AssertExpectations(t)
	})

	t.Run("rejects non positive amount", func(t *testing.T) {
		svc, m := newBalanceService(t)

		_, err := svc.TopUp(ctx, service.TopUpCommand{UserID: "user-1", Amount: 0})

		var svcErr service.Error
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, constants.ErrCodeInvalidArgument, svcErr.Code)

		m.ledger.AssertNotCalled(t, "ApplyMutation")
	})
}

func TestBalance_EditLog(t *testing.T) {
	ctx := context.Background()

	topUpLog := model.BalanceLog{
		ID:            3,
		UserID:        "user-1",
		Type:          model.LogTypeTopUp,
		Amount:        5000,
		BalanceBefore: 0,
		BalanceAfter:  5000,
	}

	t.Run("raising a top up credits the difference", func(t *testing.T) {
		svc, m := newBalanceService(t)

		newAmount := int64(8000)

		m.txManager.On("WithTx", ctx,
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.logRepo.On("FindByID", mock.AnythingOfType("*context.valueCtx"), int64(3)).
			Return(topUpLog, nil)
		m.userRepo.On("FindByIDForUpdate", mock.AnythingOfType("*context.valueCtx"), "user-1").
			Return(model.User{ID: "user-1", Balance: 5000}, nil)
		m.userRepo.On("UpdateBalance", mock.AnythingOfType("*context.valueCtx"), "user-1", int64(8000)).
			Return(nil)
		m.logRepo.On("Update", mock.AnythingOfType("*context.valueCtx"),
			mock.MatchedBy(func(log *model.BalanceLog) bool {
				return log.ID == 3 && log.Amount == 8000 && log.BalanceAfter == 8000
			})).Return(nil)
		m.activity.On("Record", ctx, mock.Anything).Return()

		updated, err := svc.EditLog(ctx, service.EditLogCommand{
			LogID:     3,
			NewAmount: &newAmount,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(8000), updated.Amount)
		assert.Equal(t, int64(8000), updated.BalanceAfter)

		m.userRepo.AssertExpectations(t)
		m.logRepo.AssertExpectations(t)
	})

	t.Run("lowering a debit log refunds the difference", func(t *testing.T) {
		svc, m := newBalanceService(t)

		debitLog := model.BalanceLog{
			ID:            4,
			UserID:        "user-1",
			Type:          model.LogTypeTransaction,
			Amount:        4000,
			BalanceBefore: 10000,
			BalanceAfter:  6000,
		}
		newAmount := int64(3000)

		m.txManager.On("WithTx", ctx,
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.logRepo.On("FindByID", mock.AnythingOfType("*context.valueCtx"), int64(4)).
			Return(debitLog, nil)
		m.userRepo.On("FindByIDForUpdate", mock.AnythingOfType("*context.valueCtx"), "user-1").
			Return(model.User{ID: "user-1", Balance: 6000}, nil)
		m.userRepo.On("UpdateBalance", mock.AnythingOfType("*context.valueCtx"), "user-1", int64(7000)).
			Return(nil)
		m.logRepo.On("Update", mock.AnythingOfType("*context.valueCtx"),
			mock.MatchedBy(func(log *model.BalanceLog) bool {
				return log.Amount == 3000 && log.BalanceAfter == 7000
			})).Return(nil)
		m.activity.On("Record", ctx, mock.Anything).Return()

		updated, err := svc.EditLog(ctx, service.EditLogCommand{
			LogID:     4,
			NewAmount: &newAmount,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(7000), updated.BalanceAfter)

		m.userRepo.AssertExpectations(t)
	})

	t.Run("description only edit leaves the balance alone", func(t *testing.T) {
		svc, m := newBalanceService(t)

		desc := "corrected memo"

		m.txManager.On("WithTx", ctx,
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.logRepo.On("FindByID", mock.AnythingOfType("*context.valueCtx"), int64(3)).
			Return(topUpLog, nil)
		m.userRepo.On("FindByIDForUpdate", mock.AnythingOfType("*context.valueCtx"), "user-1").
			Return(model.User{ID: "user-1", Balance: 5000}, nil)
		m.logRepo.On("Update", mock.AnythingOfType("*context.valueCtx"),
			mock.MatchedBy(func(log *model.BalanceLog) bool {
				return log.Description == desc && log.Amount == 5000
			})).Return(nil)
		m.activity.On("Record", ctx, mock.Anything).Return()

		updated, err := svc.EditLog(ctx, service.EditLogCommand{
			LogID:          3,
			NewDescription: &desc,
		})

		assert.NoError(t, err)
		assert.Equal(t, desc, updated.Description)

		m.userRepo.AssertNotCalled(t, "UpdateBalance")
	})

	t.Run("rejects an empty edit", func(t *testing.T) {
		svc, m := newBalanceService(t)

		_, err := svc.EditLog(ctx, service.EditLogCommand{LogID: 3})

		var svcErr service.Error
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, constants.ErrCodeInvalidArgument, svcErr.Code)

		m.txManager.AssertNotCalled(t, "WithTx")
	})

	t.Run("returns not found for missing log", func(t *testing.T) {
		svc, m := newBalanceService(t)

		newAmount := int64(100)

		m.txManager.On("WithTx", ctx,
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.logRepo.On("FindByID", mock.AnythingOfType("*context.valueCtx"), int64(99)).
			Return(model.BalanceLog{}, repository.ErrBalanceLogNotFound)

		_, err := svc.EditLog(ctx, service.EditLogCommand{LogID: 99, NewAmount: &newAmount})

		var svcErr service.Error
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, constants.ErrCodeLogNotFound, svcErr.Code)
	})
}

func TestBalance_DeleteLog(t *testing.T) {
	ctx := context.Background()

	topUpLog := model.BalanceLog{
		ID:            5,
		UserID:        "user-1",
		Type:          model.LogTypeTopUp,
		Amount:        5000,
		BalanceBefore: 3000,
		BalanceAfter:  8000,
	}

	t.Run("history only delete keeps the balance", func(t *testing.T) {
		svc, m := newBalanceService(t)

		m.logRepo.On("FindByID", ctx, int64(5)).Return(topUpLog, nil)
		m.logRepo.On("Delete", ctx, int64(5)).Return(nil)
		m.activity.On("Record", ctx, mock.Anything).Return()

		err := svc.DeleteLog(ctx, 5, false, "admin-1")

		assert.NoError(t, err)

		m.txManager.AssertNotCalled(t, "WithTx")
		m.userRepo.AssertNotCalled(t, "UpdateBalance")
	})

	t.Run("reversing delete undoes the credit", func(t *testing.T) {
		svc, m := newBalanceService(t)

		m.txManager.On("WithTx", ctx,
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.logRepo.On("FindByID", mock.AnythingOfType("*context.valueCtx"), int64(5)).
			Return(topUpLog, nil)
		m.userRepo.On("FindByIDForUpdate", mock.AnythingOfType("*context.valueCtx"), "user-1").
			Return(model.User{ID: "user-1", Balance: 8000}, nil)
		m.userRepo.On("UpdateBalance", mock.AnythingOfType("*context.valueCtx"), "user-1", int64(3000)).
			Return(nil)
		m.logRepo.On("Delete", mock.AnythingOfType("*context.valueCtx"), int64(5)).Return(nil)
		m.activity.On("Record", ctx, mock.Anything).Return()

		err := svc.DeleteLog(ctx, 5, true, "admin-1")

		assert.NoError(t, err)

		m.userRepo.AssertExpectations(t)
		m.logRepo.AssertExpectations(t)
	})

	t.Run("reversing delete of a debit restores the funds", func(t *testing.T) {
		svc, m := newBalanceService(t)

		debitLog := model.BalanceLog{
			ID:            6,
			UserID:        "user-1",
			Type:          model.LogTypeTransaction,
			Amount:        4000,
			BalanceBefore: 10000,
			BalanceAfter:  6000,
		}

		m.txManager.On("WithTx", ctx,
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.logRepo.On("FindByID", mock.AnythingOfType("*context.valueCtx"), int64(6)).
			Return(debitLog, nil)
		m.userRepo.On("FindByIDForUpdate", mock.AnythingOfType("*context.valueCtx"), "user-1").
			Return(model.User{ID: "user-1", Balance: 6000}, nil)
		m.userRepo.On("UpdateBalance", mock.AnythingOfType("*context.valueCtx"), "user-1", int64(10000)).
			Return(nil)
		m.logRepo.On("Delete", mock.AnythingOfType("*context.valueCtx"), int64(6)).Return(nil)
		m.activity.On("Record", ctx, mock.Anything).Return()

		err := svc.DeleteLog(ctx, 6, true, "admin-1")

		assert.NoError(t, err)
		m.userRepo.AssertExpectations(t)
	})

	t.Run("reversing delete reports the live balance for an older entry", func(t *testing.T) {
		svc, m := newBalanceService(t)

		// The deleted entry is not the newest one: later mutations moved the
		// balance to 9000, so the reversal lands at 9000-5000, not at the
		// entry's own bracket.
		oldLog := model.BalanceLog{
			ID:            7,
			UserID:        "user-gauge",
			Type:          model.LogTypeTopUp,
			Amount:        5000,
			BalanceBefore: 0,
			BalanceAfter:  5000,
		}

		m.txManager.On("WithTx", ctx,
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.logRepo.On("FindByID", mock.AnythingOfType("*context.valueCtx"), int64(7)).
			Return(oldLog, nil)
		m.userRepo.On("FindByIDForUpdate", mock.AnythingOfType("*context.valueCtx"), "user-gauge").
			Return(model.User{ID: "user-gauge", Balance: 9000}, nil)
		m.userRepo.On("UpdateBalance", mock.AnythingOfType("*context.valueCtx"), "user-gauge", int64(4000)).
			Return(nil)
		m.logRepo.On("Delete", mock.AnythingOfType("*context.valueCtx"), int64(7)).Return(nil)
		m.activity.On("Record", ctx, mock.Anything).Return()

		err := svc.DeleteLog(ctx, 7, true, "admin-1")

		assert.NoError(t, err)
		assert.Equal(t, float64(4000),
			testutil.ToFloat64(testMetrics.CurrentUserBalances.WithLabelValues("user-gauge")))

		m.userRepo.AssertExpectations(t)
	})

	t.Run("returns not found for missing log", func(t *testing.T) {
		svc, m := newBalanceService(t)

		m.logRepo.On("FindByID", ctx, int64(99)).
			Return(model.BalanceLog{}, repository.ErrBalanceLogNotFound)

		err := svc.DeleteLog(ctx, 99, false, "admin-1")

		var svcErr service.Error
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, constants.ErrCodeLogNotFound, svcErr.Code)
	})
}

func TestBalance_ListLogs(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by type", func(t *testing.T) {
		svc, m := newBalanceService(t)

		logType := model.LogTypeTopUp
		m.logRepo.On("List", ctx, mock.MatchedBy(func(q repository.BalanceLogQuery) bool {
			return q.UserID == "user-1" && q.Type != nil && *q.Type == logType
		})).Return([]model.BalanceLog{{ID: 1}}, int64(1), nil)

		logs, total, err := svc.ListLogs(ctx, service.ListLogsQuery{
			UserID: "user-1",
			Type:   "TOP_UP",
		})

		assert.NoError(t, err)
		assert.Len(t, logs, 1)
		assert.Equal(t, int64(1), total)
	})

	t.Run("rejects unknown type filter", func(t *testing.T) {
		svc, m := newBalanceService(t)

		_, _, err := svc.ListLogs(ctx, service.ListLogsQuery{Type: "BONUS"})

		var svcErr service.Error
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, constants.ErrCodeInvalidArgument, svcErr.Code)

		m.logRepo.AssertNotCalled(t, "List")
	})
}

func TestBalance_GetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored balance", func(t *testing.T) {
		svc, m := newBalanceService(t)

		m.userRepo.On("FindByID", ctx, "user-1").
			Return(model.User{ID: "user-1", Balance: 12345}, nil)

		balance, err := svc.GetBalance(ctx, "user-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(12345), balance)
	})

	t.Run("returns not found for unknown user", func(t *testing.T) {
		svc, m := newBalanceService(t)

		m.userRepo.On("FindByID", ctx, "ghost").
			Return(model.User{}, repository.ErrUserNotFound)

		_, err := svc.GetBalance(ctx, "ghost")

		var svcErr service.Error
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, constants.ErrCodeUserNotFound, svcErr.Code)
	})
}
