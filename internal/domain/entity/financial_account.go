package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialAccount es una cuenta (caja, banco). CurrentBalance es un cache
// derivado: saldo inicial más la suma con signo de las transacciones SETTLED;
// se mantiene por incrementos atómicos, nunca se recalcula en cada lectura.
type FinancialAccount struct {
	ID             string
	Name           string
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
