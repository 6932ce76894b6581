package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderItemRequest línea del pedido. UnitPrice en cero usa el precio del producto.
type CreateOrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateOrderRequest body para POST /api/orders. LocationID es obligatoria:
// no hay sede por defecto (evita despachar stock de la sucursal equivocada).
type CreateOrderRequest struct {
	ClientID   string                   `json:"client_id"`
	LocationID string                   `json:"location_id"`
	Discount   decimal.Decimal          `json:"discount,omitempty"`
	DueDate    *time.Time               `json:"due_date,omitempty"`
	Notes      string                   `json:"notes,omitempty"`
	Items      []CreateOrderItemRequest `json:"items"`
}

// TransitionOrderRequest body para PUT /api/orders/:id/status.
// AccountID (opcional) indica la cuenta que recibe el ingreso al entregar;
// si se omite se usa la cuenta de ingresos por defecto configurada.
type TransitionOrderRequest struct {
	Status    string `json:"status"`
	AccountID string `json:"account_id,omitempty"`
}

// OrderItemResponse línea del pedido.
type OrderItemResponse struct {
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CostPrice  decimal.Decimal `json:"cost_price"`
}

// OrderResponse pedido con líneas y saldos.
type OrderResponse struct {
	ID            string              `json:"id"`
	ClientID      string              `json:"client_id"`
	LocationID    string              `json:"location_id"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	TotalValue    decimal.Decimal     `json:"total_value"`
	Discount      decimal.Decimal     `json:"discount"`
	PaidAmount    decimal.Decimal     `json:"paid_amount"`
	PendingAmount decimal.Decimal     `json:"pending_amount"`
	DueDate       *time.Time          `json:"due_date,omitempty"`
	Items         []OrderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}
