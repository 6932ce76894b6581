package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción financiera.
const (
	TransactionKindRevenue  = "REVENUE"
	TransactionKindExpense  = "EXPENSE"
	TransactionKindTransfer = "TRANSFER"
)

// Estados de transacción. SETTLED significa que su efecto ya está aplicado
// al saldo de la(s) cuenta(s).
const (
	TransactionStatusPending = "PENDING"
	TransactionStatusSettled = "SETTLED"
)

// FinancialTransaction es una entrada del libro financiero. OrderID (opcional)
// está protegido por un constraint único: a lo sumo una transacción por pedido,
// el ancla de idempotencia contra ingresos duplicados.
type FinancialTransaction struct {
	ID                   string
	Kind                 string
	AccountID            string
	DestinationAccountID string // solo TRANSFER
	OrderID              string // opcional, único cuando no es vacío
	Amount               decimal.Decimal
	Status               string
	SettlementDate       *time.Time
	Description          string
	CreatedAt            time.Time
}

// ValidTransactionKind indica si el tipo de transacción es conocido.
func ValidTransactionKind(kind string) bool {
	switch kind {
	case TransactionKindRevenue, TransactionKindExpense, TransactionKindTransfer:
		return true
	}
	return false
}
