package v1

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kasirhub/ppob-ledger/internal/api/contract"
	"github.com/kasirhub/ppob-ledger/internal/api/validator"
	"github.com/kasirhub/ppob-ledger/internal/constants"
	"github.com/kasirhub/ppob-ledger/internal/model"
	"github.com/kasirhub/ppob-ledger/internal/service"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type Handler struct {
	logger     *zap.Logger
	txService  service.TransactionService
	balances   service.BalanceService
	XValidator validator.IXValidator
}

func NewHandler(logger *zap.Logger, txService service.TransactionService,
	balances service.BalanceService, XValidator validator.IXValidator) *Handler {
	return &Handler{
		logger:     logger,
		txService:  txService,
		balances:   balances,
		XValidator: XValidator,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "time": time.Now().UTC()})
}

func (h *Handler) CreateTransaction(c *fiber.Ctx) error {
	var req CreateTransactionRequest

	responseError := h.XValidator.Validator(&req, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", req))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	cmd := service.CreateTransactionCommand{
		UserID:         req.UserID,
		ProductID:      req.ProductID,
		CustomerNumber: req.CustomerNumber,
	}
	if req.Date != nil {
		cmd.Timestamp = *req.Date
	}

	tx, err := h.txService.Create(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success",
		Message: "transaction created", Result: tx})
}

func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	q := service.ListTransactionsQuery{
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     pageQuery(c),
		PageSize: limitQuery(c),
	}

	txs, total, err := h.txService.List(c.UserContext(), q)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success", Result: contract.PagedResult{
		Entries:    txs,
		Pagination: contract.NewPagination(q.Page, q.PageSize, total),
	}})
}

func (h *Handler) CorrectTransactionStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req CorrectTransactionStatusRequest
	responseError := h.XValidator.Validator(&req, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", req))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	tx, err := h.txService.CorrectStatus(c.UserContext(), service.CorrectStatusCommand{
		TransactionID: id,
		NewStatus:     model.TransactionStatus(req.Status),
		Note:          req.Note,
		ActorID:       req.ActorID,
	})
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success",
		Message: "transaction status updated", Result: tx})
}

func (h *Handler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.txService.Delete(c.UserContext(), id, c.Query("actor_id")); err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success",
		Message: "transaction deleted and balance restored"})
}

func (h *Handler) TopUp(c *fiber.Ctx) error {
	var req TopUpRequest

	responseError := h.XValidator.Validator(&req, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", req))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	cmd := service.TopUpCommand{
		UserID:      req.UserID,
		Amount:      req.Amount,
		Description: req.Description,
		ActorID:     req.ActorID,
	}
	if req.Date != nil {
		cmd.Timestamp = *req.Date
	}

	entry, err := h.balances.TopUp(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success",
		Message: "top up applied", Result: entry})
}

func (h *Handler) ListBalanceLogs(c *fiber.Ctx) error {
	q := service.ListLogsQuery{
		UserID:   c.Query("user_id"),
		Type:     c.Query("type"),
		Page:     pageQuery(c),
		PageSize: limitQuery(c),
	}

	var err error
	if q.From, err = parseDate(c.Query("start_date")); err != nil {
		return err
	}
	if q.To, err = parseDate(c.Query("end_date")); err != nil {
		return err
	}

	logs, total, err := h.balances.ListLogs(c.UserContext(), q)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success", Result: contract.PagedResult{
		Entries:    logs,
		Pagination: contract.NewPagination(q.Page, q.PageSize, total),
	}})
}

func (h *Handler) EditBalanceLog(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req EditBalanceLogRequest
	responseError := h.XValidator.Validator(&req, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", req))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	entry, err := h.balances.EditLog(c.UserContext(), service.EditLogCommand{
		LogID:          id,
		NewAmount:      req.Amount,
		NewDescription: req.Description,
		ActorID:        req.ActorID,
	})
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success",
		Message: "balance log updated and balance adjusted", Result: entry})
}

func (h *Handler) DeleteBalanceLog(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	reverse := c.QueryBool("reverse", false)
	if err := h.balances.DeleteLog(c.UserContext(), id, reverse, c.Query("actor_id")); err != nil {
		return err
	}

	message := "balance log deleted, balance left untouched"
	if reverse {
		message = "balance log deleted and balance adjusted"
	}

	return c.JSON(contract.Response{Successful: true, Code: "success", Message: message})
}

func (h *Handler) GetUserBalance(c *fiber.Ctx) error {
	userID := c.Params("id")

	balance, err := h.balances.GetBalance(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success",
		Result: fiber.Map{"user_id": userID, "balance": balance}})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, service.NewServiceError(constants.ErrCodeInvalidArgument, err)
	}
	return id, nil
}

// pageQuery and limitQuery clamp the pagination params to the same bounds
// the services query with, so the response metadata matches the query.
func pageQuery(c *fiber.Ctx) int {
	page := c.QueryInt("page", 1)
	if page < 1 {
		return 1
	}
	return page
}

func limitQuery(c *fiber.Ctx) int {
	limit := c.QueryInt("limit", defaultPageLimit)
	if limit < 1 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, service.NewServiceError(constants.ErrCodeInvalidArgument, err)
	}
	return &t, nil
}
