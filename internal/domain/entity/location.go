package entity

import "time"

// Location representa una sede de la distribuidora (depósito o sucursal)
// donde se almacenan cilindros y desde donde se despachan pedidos.
type Location struct {
	ID        string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
