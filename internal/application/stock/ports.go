package stock

import (
	"context"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de stock:
// el movimiento y el agregado materializado se confirman juntos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		recRepo repository.StockRecordRepository,
	) error) error
}
