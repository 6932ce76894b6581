package order_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/order"
)

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados del pedido
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition_FlujoFeliz(t *testing.T) {
	assert.True(t, order.CanTransition(entity.OrderStatusPending, entity.OrderStatusInTransit))
	assert.True(t, order.CanTransition(entity.OrderStatusInTransit, entity.OrderStatusDelivered))
}

func TestCanTransition_EntregaDirecta(t *testing.T) {
	// Un pedido puede entregarse sin pasar por IN_TRANSIT (venta en mostrador).
	assert.True(t, order.CanTransition(entity.OrderStatusPending, entity.OrderStatusDelivered))
}

func TestCanTransition_CancelarSoloDesdePendiente(t *testing.T) {
	assert.True(t, order.CanTransition(entity.OrderStatusPending, entity.OrderStatusCancelled))
	assert.False(t, order.CanTransition(entity.OrderStatusInTransit, entity.OrderStatusCancelled))
	assert.False(t, order.CanTransition(entity.OrderStatusDelivered, entity.OrderStatusCancelled))
}

func TestCanTransition_EstadosTerminalesSinSalida(t *testing.T) {
	for _, from := range []string{entity.OrderStatusDelivered, entity.OrderStatusCancelled} {
		for _, to := range []string{
			entity.OrderStatusPending, entity.OrderStatusInTransit,
			entity.OrderStatusDelivered, entity.OrderStatusCancelled,
		} {
			assert.False(t, order.CanTransition(from, to), "%s → %s debe ser ilegal", from, to)
		}
	}
}

func TestCanTransition_SinRetroceso(t *testing.T) {
	// La progresión es monótona: no se vuelve a PENDING ni de DELIVERED a IN_TRANSIT.
	assert.False(t, order.CanTransition(entity.OrderStatusInTransit, entity.OrderStatusPending))
	assert.False(t, order.CanTransition(entity.OrderStatusDelivered, entity.OrderStatusInTransit))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, order.IsTerminal(entity.OrderStatusDelivered))
	assert.True(t, order.IsTerminal(entity.OrderStatusCancelled))
	assert.False(t, order.IsTerminal(entity.OrderStatusPending))
	assert.False(t, order.IsTerminal(entity.OrderStatusInTransit))
}

// ──────────────────────────────────────────────────────────────────────────────
// Montos y estado de pago
// ──────────────────────────────────────────────────────────────────────────────

func TestPendingAmount_NuncaNegativo(t *testing.T) {
	total := decimal.NewFromInt(500)
	discount := decimal.NewFromInt(50)
	paid := decimal.NewFromInt(600) // sobrepago hipotético

	assert.True(t, order.PendingAmount(total, discount, paid).IsZero())
}

func TestPendingAmount_Calculo(t *testing.T) {
	pending := order.PendingAmount(decimal.NewFromInt(500), decimal.Zero, decimal.NewFromInt(200))
	assert.True(t, pending.Equal(decimal.NewFromInt(300)))
}

func TestRecomputePaymentStatus(t *testing.T) {
	total := decimal.NewFromInt(500)

	assert.Equal(t, entity.PaymentStatusPending,
		order.RecomputePaymentStatus(total, decimal.Zero, decimal.Zero))
	assert.Equal(t, entity.PaymentStatusPartial,
		order.RecomputePaymentStatus(total, decimal.Zero, decimal.NewFromInt(200)))
	assert.Equal(t, entity.PaymentStatusPaid,
		order.RecomputePaymentStatus(total, decimal.Zero, decimal.NewFromInt(500)))
}

func TestRecomputePaymentStatus_ConDescuento(t *testing.T) {
	// Con descuento de 100, el pedido queda pago al abonar 400 de un total de 500.
	total := decimal.NewFromInt(500)
	discount := decimal.NewFromInt(100)

	assert.Equal(t, entity.PaymentStatusPartial,
		order.RecomputePaymentStatus(total, discount, decimal.NewFromInt(399)))
	assert.Equal(t, entity.PaymentStatusPaid,
		order.RecomputePaymentStatus(total, discount, decimal.NewFromInt(400)))
}
