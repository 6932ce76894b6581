package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/stock/movements.
// Quantity siempre positiva salvo ADJUSTMENT, que admite signo.
type RegisterMovementRequest struct {
	ProductID     string          `json:"product_id"`
	LocationID    string          `json:"location_id"`
	Kind          string          `json:"kind"`
	BottleState   string          `json:"bottle_state"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reason        string          `json:"reason,omitempty"`
	AllowNegative bool            `json:"allow_negative,omitempty"` // override administrativo
}

// TransferStockRequest body para POST /api/stock/transfers.
type TransferStockRequest struct {
	ProductID      string          `json:"product_id"`
	FromLocationID string          `json:"from_location_id"`
	ToLocationID   string          `json:"to_location_id"`
	BottleState    string          `json:"bottle_state"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         string          `json:"reason,omitempty"`
}

// SetLevelsRequest body para PUT /api/stock/:productID/:locationID/levels.
type SetLevelsRequest struct {
	MinLevel decimal.Decimal `json:"min_level"`
	MaxLevel decimal.Decimal `json:"max_level"`
}

// StockRecordResponse existencias de un producto en una sede.
type StockRecordResponse struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	FullQty        decimal.Decimal `json:"full_qty"`
	EmptyQty       decimal.Decimal `json:"empty_qty"`
	MaintenanceQty decimal.Decimal `json:"maintenance_qty"`
	MinLevel       decimal.Decimal `json:"min_level"`
	MaxLevel       decimal.Decimal `json:"max_level"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// StockMovementResponse un movimiento del log.
type StockMovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	LocationID    string          `json:"location_id"`
	OrderID       string          `json:"order_id,omitempty"`
	Kind          string          `json:"kind"`
	BottleState   string          `json:"bottle_state"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reason        string          `json:"reason,omitempty"`
	ReversalOf    string          `json:"reversal_of,omitempty"`
	TransferGroup string          `json:"transfer_group,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
