package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

// StockMovementRepository define el puerto del log append-only de movimientos.
// Los movimientos nunca se modifican ni se borran.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByOrder(orderID string) ([]*entity.StockMovement, error)
	ListByKey(productID, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// SumByKey recalcula las cantidades desde el log (verificación de conservación
	// contra el agregado materializado).
	SumByKey(productID, locationID string) (full, empty, maintenance decimal.Decimal, err error)
}
