package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCard     = "CARD"
	PaymentMethodCredit   = "CREDIT"
)

// ValidPaymentMethod indica si el método de pago es conocido.
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard, PaymentMethodCredit:
		return true
	}
	return false
}

// OrderPayment es un abono parcial o total contra el saldo de un pedido.
// La suma de abonos de un pedido nunca supera total − descuento.
type OrderPayment struct {
	ID          string
	OrderID     string
	Amount      decimal.Decimal
	Method      string
	PaymentDate time.Time
	ReceiptRef  string // referencia externa del comprobante (archivo fuera de alcance)
	CreatedAt   time.Time
}
