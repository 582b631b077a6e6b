package constants

const MessageErrorFormat = "The '%s' format is invalid"

const (
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeProductInactive     = "PRODUCT_INACTIVE"
	ErrCodeTransactionNotFound = "TRANSACTION_NOT_FOUND"
	ErrCodeLogNotFound         = "BALANCE_LOG_NOT_FOUND"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeInvalidArgument     = "INVALID_ARGUMENT"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeOperationFailed     = "OPERATION_FAILED"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
)

const (
	ErrMsgUserNotFound        = "user not found"
	ErrMsgProductNotFound     = "product not found"
	ErrMsgProductInactive     = "product is not active"
	ErrMsgTransactionNotFound = "transaction not found"
	ErrMsgLogNotFound         = "balance log not found"
	ErrMsgInsufficientBalance = "insufficient balance"
	ErrMsgInvalidArgument     = "invalid argument"
	ErrMsgConflict            = "concurrent balance update, please retry"
	ErrMsgOperationFailed     = "operation failed"
)

var errorMessages = map[string]string{
	ErrCodeUserNotFound:        ErrMsgUserNotFound,
	ErrCodeProductNotFound:     ErrMsgProductNotFound,
	ErrCodeProductInactive:     ErrMsgProductInactive,
	ErrCodeTransactionNotFound: ErrMsgTransactionNotFound,
	ErrCodeLogNotFound:         ErrMsgLogNotFound,
	ErrCodeInsufficientBalance: ErrMsgInsufficientBalance,
	ErrCodeInvalidArgument:     ErrMsgInvalidArgument,
	ErrCodeConflict:            ErrMsgConflict,
	ErrCodeOperationFailed:     ErrMsgOperationFailed,
}

func GetErrorMessage(code string) string {
	msg, exists := errorMessages[code]
	if !exists {
		return ""
	}
	return msg
}
