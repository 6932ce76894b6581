package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostTransactionRequest body para POST /api/finance/transactions.
// DestinationAccountID solo aplica para TRANSFER.
type PostTransactionRequest struct {
	Kind                 string          `json:"kind"`
	AccountID            string          `json:"account_id"`
	DestinationAccountID string          `json:"destination_account_id,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Status               string          `json:"status,omitempty"` // por defecto SETTLED
	Description          string          `json:"description,omitempty"`
}

// UpdateTransactionStatusRequest body para PUT /api/finance/transactions/:id/status.
type UpdateTransactionStatusRequest struct {
	Status string `json:"status"`
}

// TransactionResponse una transacción del libro.
type TransactionResponse struct {
	ID                   string          `json:"id"`
	Kind                 string          `json:"kind"`
	AccountID            string          `json:"account_id"`
	DestinationAccountID string          `json:"destination_account_id,omitempty"`
	OrderID              string          `json:"order_id,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Status               string          `json:"status"`
	SettlementDate       *time.Time      `json:"settlement_date,omitempty"`
	Description          string          `json:"description,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// FinancialSummaryResponse agregado del libro en un rango de fechas.
type FinancialSummaryResponse struct {
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Pending decimal.Decimal `json:"pending"`
	Overdue decimal.Decimal `json:"overdue"`
}

// CreateAccountRequest body para POST /api/finance/accounts.
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initial_balance,omitempty"`
}

// AccountResponse una cuenta con su saldo actual.
type AccountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}
