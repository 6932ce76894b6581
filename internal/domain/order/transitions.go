package order

import "github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"

// CanTransition valida la máquina de estados del pedido (servicio de dominio).
// PENDING → IN_TRANSIT → DELIVERED (terminal); PENDING → DELIVERED (entrega
// directa); PENDING → CANCELLED (terminal). No hay salida de DELIVERED ni de
// CANCELLED.
func CanTransition(from, to string) bool {
	switch from {
	case entity.OrderStatusPending:
		return to == entity.OrderStatusInTransit ||
			to == entity.OrderStatusDelivered ||
			to == entity.OrderStatusCancelled
	case entity.OrderStatusInTransit:
		return to == entity.OrderStatusDelivered
	}
	return false
}

// IsTerminal indica si el estado no admite más transiciones.
func IsTerminal(status string) bool {
	return status == entity.OrderStatusDelivered || status == entity.OrderStatusCancelled
}
