package dto

import "github.com/shopspring/decimal"

// CreateDonationRequest is the body of POST /donations. Any status in the body is ignored.
type CreateDonationRequest struct {
	NGOID         string           `json:"ngo_id"`
	Amount        *decimal.Decimal `json:"amount"`
	Currency      string           `json:"currency" validate:"omitempty,len=3,alpha"`
	PaymentMethod string           `json:"payment_method" validate:"max=64"`
	TransactionID string           `json:"transaction_id" validate:"max=128"`
	Message       string           `json:"message" validate:"max=1000"`
	Anonymous     bool             `json:"anonymous"`
}

type UpdateDonationStatusRequest struct {
	Status string `json:"status"`
}
