package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de la distribuidora (cilindro de gas por
// capacidad, o accesorio). Cost es el costo de reposición vigente; se congela
// en cada línea de pedido al crearla.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	CapacityKg  decimal.Decimal // capacidad del cilindro en kg (0 para accesorios)
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo de reposición
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
