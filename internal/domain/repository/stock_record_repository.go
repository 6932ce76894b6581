package repository

import (
	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

// StockRecordRepository define el puerto para el agregado de existencias por
// (producto, sede). Usado dentro de transacciones para garantizar consistencia.
type StockRecordRepository interface {
	// Get obtiene el registro actual; si no existe devuelve uno con cantidades
	// en cero sin crear fila.
	Get(productID, locationID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID, locationID string) (*entity.StockRecord, error)
	// ApplyDelta suma delta a la columna del estado de cilindro indicado en UNA
	// sola sentencia upsert+incremento (nunca leer-calcular-escribir).
	ApplyDelta(productID, locationID, bottleState string, delta decimal.Decimal) (*entity.StockRecord, error)
	// SetLevels actualiza niveles mínimo y máximo de reposición.
	SetLevels(productID, locationID string, minLevel, maxLevel decimal.Decimal) error
	// Delete elimina el registro (solo permitido con cantidades en cero).
	Delete(productID, locationID string) error
	ListByLocation(locationID string) ([]*entity.StockRecord, error)
}
