package repository

import "github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"

// OrderPaymentRepository define el puerto de persistencia de abonos.
type OrderPaymentRepository interface {
	Create(payment *entity.OrderPayment) error
	GetByID(id string) (*entity.OrderPayment, error)
	ListByOrder(orderID string) ([]*entity.OrderPayment, error)
	Delete(id string) error
	// DeleteByOrder elimina todos los abonos de un pedido (cancelación).
	DeleteByOrder(orderID string) error
}
