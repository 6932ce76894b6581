package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementKindInbound       = "INBOUND"        // entrada
	MovementKindOutbound      = "OUTBOUND"       // salida
	MovementKindTransfer      = "TRANSFER"       // traslado entre sedes
	MovementKindAdjustment    = "ADJUSTMENT"     // ajuste (cantidad con signo)
	MovementKindMaintenanceIn = "MAINTENANCE_IN" // ingreso de cilindros a taller
)

// Estados del cilindro sobre los que actúa un movimiento.
const (
	BottleStateFull        = "FULL"
	BottleStateEmpty       = "EMPTY"
	BottleStateMaintenance = "MAINTENANCE"
)

// StockMovement es un evento inmutable del libro de stock. Nunca se modifica ni
// se borra: una cancelación agrega un movimiento compensatorio (ReversalOf
// apunta al original) y el original queda como rastro de auditoría.
type StockMovement struct {
	ID            string
	ProductID     string
	LocationID    string
	OrderID       string // opcional: pedido que originó la salida
	Kind          string
	BottleState   string
	Quantity      decimal.Decimal // con signo: positivo entrada, negativo salida
	Reason        string
	ReversalOf    string // ID del movimiento que este compensa (vacío si no aplica)
	TransferGroup string // agrupa los dos movimientos de un traslado
	ActorID       string
	CreatedAt     time.Time
}

// ValidMovementKind indica si el tipo de movimiento es conocido.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindInbound, MovementKindOutbound, MovementKindTransfer,
		MovementKindAdjustment, MovementKindMaintenanceIn:
		return true
	}
	return false
}

// ValidBottleState indica si el estado de cilindro es conocido.
func ValidBottleState(state string) bool {
	switch state {
	case BottleStateFull, BottleStateEmpty, BottleStateMaintenance:
		return true
	}
	return false
}
