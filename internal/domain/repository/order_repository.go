package repository

import (
	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia de pedidos y sus líneas.
type OrderRepository interface {
	Create(order *entity.Order) error
	CreateItem(item *entity.OrderItem) error
	// GetByID devuelve el pedido con sus líneas, o nil si no existe.
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido (SELECT FOR UPDATE), sin líneas.
	GetForUpdate(id string) (*entity.Order, error)
	ListItems(orderID string) ([]*entity.OrderItem, error)
	UpdateStatus(id, status string) error
	// UpdatePaymentState actualiza paid_amount y payment_status en una sola sentencia.
	UpdatePaymentState(id string, paidAmount decimal.Decimal, paymentStatus string) error
	List(status string, limit, offset int) ([]*entity.Order, error)
}
