package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa las existencias de un producto en una sede, separadas
// por estado del cilindro (lleno, vacío, en mantenimiento). Hay a lo sumo un
// registro por (producto, sede); se crea de forma perezosa con el primer movimiento.
type StockRecord struct {
	ProductID      string
	LocationID     string
	FullQty        decimal.Decimal
	EmptyQty       decimal.Decimal
	MaintenanceQty decimal.Decimal
	MinLevel       decimal.Decimal
	MaxLevel       decimal.Decimal
	UpdatedAt      time.Time
}

// QtyFor devuelve la cantidad del estado de cilindro indicado.
func (s *StockRecord) QtyFor(state string) decimal.Decimal {
	switch state {
	case BottleStateFull:
		return s.FullQty
	case BottleStateEmpty:
		return s.EmptyQty
	case BottleStateMaintenance:
		return s.MaintenanceQty
	}
	return decimal.Zero
}

// IsEmpty indica si todas las cantidades son cero (condición para eliminación administrativa).
func (s *StockRecord) IsEmpty() bool {
	return s.FullQty.IsZero() && s.EmptyQty.IsZero() && s.MaintenanceQty.IsZero()
}
