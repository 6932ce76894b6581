package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordPaymentRequest body para POST /api/orders/:id/payments.
type RecordPaymentRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	ReceiptRef string          `json:"receipt_ref,omitempty"`
}

// PaymentResponse un abono registrado.
type PaymentResponse struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	PaymentDate time.Time       `json:"payment_date"`
	ReceiptRef  string          `json:"receipt_ref,omitempty"`
}
