package order

import (
	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

// PendingAmount calcula max(0, total − descuento − abonado).
func PendingAmount(total, discount, paid decimal.Decimal) decimal.Decimal {
	pending := total.Sub(discount).Sub(paid)
	if pending.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return pending
}

// RecomputePaymentStatus deriva el estado de pago tras registrar o reversar un
// abono: PAID si no queda saldo, PARTIAL si hay abonos pero queda saldo,
// PENDING si no hay abonos. OVERDUE no se deriva aquí (depende de la fecha de
// vencimiento, ver resúmenes financieros).
func RecomputePaymentStatus(total, discount, paid decimal.Decimal) string {
	net := total.Sub(discount)
	if net.LessThanOrEqual(decimal.Zero) || paid.GreaterThanOrEqual(net) {
		return entity.PaymentStatusPaid
	}
	if paid.GreaterThan(decimal.Zero) {
		return entity.PaymentStatusPartial
	}
	return entity.PaymentStatusPending
}
