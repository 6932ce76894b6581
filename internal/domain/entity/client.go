package entity

import "time"

// Client representa un cliente de la distribuidora (hogar o comercio).
type Client struct {
	ID        string
	Name      string
	Document  string // cédula o NIT
	Phone     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
