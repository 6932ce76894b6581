package repository

import (
	"time"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

// FinancialTransactionRepository define el puerto de persistencia del libro
// financiero (append-only salvo la cancelación de pedidos pendientes).
type FinancialTransactionRepository interface {
	Create(tx *entity.FinancialTransaction) error
	// CreateForOrder inserta con ON CONFLICT (order_id) DO NOTHING. Devuelve
	// false cuando el pedido ya tenía transacción (reintento absorbido, no error).
	CreateForOrder(tx *entity.FinancialTransaction) (bool, error)
	GetByID(id string) (*entity.FinancialTransaction, error)
	GetByOrder(orderID string) (*entity.FinancialTransaction, error)
	// SetStatus cambia el estado solo si difiere del actual (UPDATE condicional).
	// Devuelve false si el estado ya era el solicitado; el efecto sobre saldos
	// se aplica únicamente cuando hubo cambio.
	SetStatus(id, status string, settlementDate *time.Time) (bool, error)
	Delete(id string) error
	Summarize(from, to *time.Time) (*entity.FinancialSummary, error)
}
