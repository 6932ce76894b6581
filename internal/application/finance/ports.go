package finance

import (
	"context"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del libro financiero atados a esa tx. El insert de la
// transacción y el efecto sobre saldos se confirman juntos o ninguno.
type TxRunner interface {
	RunFinance(ctx context.Context, fn func(
		txRepo repository.FinancialTransactionRepository,
		accRepo repository.FinancialAccountRepository,
	) error) error
}
