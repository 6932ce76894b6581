package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido. Las transiciones son monótonas; CANCELLED solo es
// alcanzable desde PENDING.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusInTransit = "IN_TRANSIT"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// Estados de pago del pedido.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPartial = "PARTIAL"
	PaymentStatusPaid    = "PAID"
	PaymentStatusOverdue = "OVERDUE"
)

// Order representa un pedido de cilindros de gas de un cliente.
type Order struct {
	ID            string
	ClientID      string
	LocationID    string // sede que despacha; obligatoria al crear
	Status        string
	PaymentStatus string
	TotalValue    decimal.Decimal
	Discount      decimal.Decimal
	PaidAmount    decimal.Decimal
	DueDate       *time.Time
	Notes         string
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PendingAmount devuelve max(0, total − descuento − abonado).
func (o *Order) PendingAmount() decimal.Decimal {
	pending := o.TotalValue.Sub(o.Discount).Sub(o.PaidAmount)
	if pending.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return pending
}

// NetValue devuelve total − descuento (el monto que se factura).
func (o *Order) NetValue() decimal.Decimal {
	return o.TotalValue.Sub(o.Discount)
}

// OrderItem es una línea del pedido. CostPrice se congela al crear el pedido
// (costo del producto en ese momento) y no se recalcula después.
type OrderItem struct {
	ID         string
	OrderID    string
	ProductID  string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	CostPrice  decimal.Decimal
}
