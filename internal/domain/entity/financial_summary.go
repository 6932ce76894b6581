package entity

import "github.com/shopspring/decimal"

// FinancialSummary es el agregado de solo lectura del libro financiero en un
// rango de fechas. Puramente derivado; no muta estado.
type FinancialSummary struct {
	Revenue decimal.Decimal // ingresos SETTLED
	Expense decimal.Decimal // egresos SETTLED
	Pending decimal.Decimal // transacciones PENDING (con signo)
	Overdue decimal.Decimal // saldo pendiente de pedidos vencidos
}
