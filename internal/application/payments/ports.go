package payments

import (
	"context"
	"time"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que toca el registro de abonos: pedido, abonos y libro
// financiero se actualizan juntos o ninguno.
type TxRunner interface {
	RunPayments(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		paymentRepo repository.OrderPaymentRepository,
		txRepo repository.FinancialTransactionRepository,
		accRepo repository.FinancialAccountRepository,
	) error) error
}

// FinancialLedger propaga el estado de liquidación a la transacción del pedido
// usando los repositorios del caller (misma transacción). La actualización es
// idempotente: repetirla con el mismo estado objetivo no duplica el efecto.
type FinancialLedger interface {
	SetStatusInTx(
		txRepo repository.FinancialTransactionRepository,
		accRepo repository.FinancialAccountRepository,
		txID, newStatus string,
		now time.Time,
	) error
}
