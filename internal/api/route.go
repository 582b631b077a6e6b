package api

import (
	"github.com/gofiber/fiber/v2"
	v1 "github.com/kasirhub/ppob-ledger/internal/api/v1"
)

const prefixV1 = "/api/v1/"

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)
	app.Get("/health", handler.Health)

	app.Post(prefixV1+"transactions", handler.CreateTransaction)
	app.Get(prefixV1+"transactions", handler.ListTransactions)
	app.Patch(prefixV1+"transactions/:id", handler.CorrectTransactionStatus)
	app.Delete(prefixV1+"transactions/:id", handler.DeleteTransaction)

	app.Post(prefixV1+"balance/topup", handler.TopUp)
	app.Get(prefixV1+"balance/logs", handler.ListBalanceLogs)
	app.Put(prefixV1+"balance/logs/:id", handler.EditBalanceLog)
	app.Delete(prefixV1+"balance/logs/:id", handler.DeleteBalanceLog)

	app.Get(prefixV1+"users/:id/balance", handler.GetUserBalance)
}
