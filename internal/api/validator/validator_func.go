package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/kasirhub/ppob-ledger/internal/model"
)

const TransactionStatusTag = "txstatus"

var valid = map[string]func(fl validator.FieldLevel) bool{
	TransactionStatusTag: ValidateTransactionStatus,
}

func ValidateTransactionStatus(fl validator.FieldLevel) bool {
	return model.TransactionStatus(fl.Field().String()).Valid()
}
