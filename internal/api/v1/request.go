package v1

import "time"

type CreateTransactionRequest struct {
	UserID         string     `json:"user_id" validate:"required"`
	ProductID      string     `json:"product_id" validate:"required"`
	CustomerNumber string     `json:"customer_number" validate:"required"`
	Date           *time.Time `json:"date"`
}

type CorrectTransactionStatusRequest struct {
	Status  string `json:"status" validate:"required,txstatus"`
	Note    string `json:"note"`
	ActorID string `json:"actor_id"`
}

type TopUpRequest struct {
	UserID      string     `json:"user_id" validate:"required"`
	Amount      int64      `json:"amount" validate:"required,min=1"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
	ActorID     string     `json:"actor_id"`
}

type EditBalanceLogRequest struct {
	Amount      *int64  `json:"amount" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	ActorID     string  `json:"actor_id"`
}
