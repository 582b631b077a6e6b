package errors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kasirhub/ppob-ledger/internal/constants"
	"github.com/kasirhub/ppob-ledger/internal/service"
)

func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Internal server error",
			"message": "Could not process the request",
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	statusMap := map[string]int{
		constants.ErrCodeUserNotFound:        fiber.StatusNotFound,
		constants.ErrCodeProductNotFound:     fiber.StatusNotFound,
		constants.ErrCodeTransactionNotFound: fiber.StatusNotFound,
		constants.ErrCodeLogNotFound:         fiber.StatusNotFound,
		constants.ErrCodeProductInactive:     fiber.StatusBadRequest,
		constants.ErrCodeInvalidArgument:     fiber.StatusBadRequest,
		constants.ErrCodeInsufficientBalance: fiber.StatusConflict,
		constants.ErrCodeConflict:            fiber.StatusConflict,
		constants.ErrCodeOperationFailed:     fiber.StatusInternalServerError,
	}

	status, ok := statusMap[err.Code]
	if !ok {
		status = fiber.StatusInternalServerError
	}

	body := fiber.Map{
		"code":    err.Code,
		"message": constants.GetErrorMessage(err.Code),
	}
	if err.Code == constants.ErrCodeConflict {
		body["retryable"] = true
	}

	return c.Status(status).JSON(body)
}
