package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con todos los
// repositorios que toca el ciclo de vida del pedido. Creación y cancelación
// son unidades atómicas: pedido, líneas, movimientos de stock y transacción
// financiera se confirman juntos o ninguno.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		paymentRepo repository.OrderPaymentRepository,
		movRepo repository.StockMovementRepository,
		recRepo repository.StockRecordRepository,
		txRepo repository.FinancialTransactionRepository,
		accRepo repository.FinancialAccountRepository,
	) error) error
}

// StockLedger integra el ciclo de vida del pedido con el libro de stock usando
// los repositorios del caller (misma transacción). Si retorna error
// (ej: ErrInsufficientStock) el caller hace rollback.
type StockLedger interface {
	RegisterOutboundInTx(
		movRepo repository.StockMovementRepository,
		recRepo repository.StockRecordRepository,
		productID, locationID, bottleState string,
		quantity decimal.Decimal,
		orderID, actorID string,
		now time.Time,
	) error
	ReverseOrderMovementsInTx(
		movRepo repository.StockMovementRepository,
		recRepo repository.StockRecordRepository,
		orderID, actorID string,
		now time.Time,
	) error
}

// FinancialLedger integra el ciclo de vida del pedido con el libro financiero
// (misma transacción del caller).
type FinancialLedger interface {
	// PostOrderRevenueInTx devuelve false sin error cuando el pedido ya tenía
	// transacción (ancla de idempotencia, reintento absorbido).
	PostOrderRevenueInTx(
		txRepo repository.FinancialTransactionRepository,
		accRepo repository.FinancialAccountRepository,
		orderID, accountID string,
		amount decimal.Decimal,
		settled bool,
		now time.Time,
	) (bool, error)
	RemoveOrderTransactionInTx(
		txRepo repository.FinancialTransactionRepository,
		accRepo repository.FinancialAccountRepository,
		orderID string,
	) error
}
