package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CapacityKg  decimal.Decimal `json:"capacity_kg,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. Campos vacíos no se tocan.
type UpdateProductRequest struct {
	Name        string           `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

// ProductResponse un producto del catálogo.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CapacityKg  decimal.Decimal `json:"capacity_kg"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// LocationResponse una sede.
type LocationResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Active  bool   `json:"active"`
}

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// UpdateClientRequest body para PUT /api/clients/:id.
type UpdateClientRequest struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Active  *bool  `json:"active,omitempty"`
}

// ClientResponse un cliente.
type ClientResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Active   bool   `json:"active"`
}
