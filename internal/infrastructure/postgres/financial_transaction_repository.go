package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

var _ repository.FinancialTransactionRepository = (*FinancialTransactionRepo)(nil)

// FinancialTransactionRepo implementación de FinancialTransactionRepository
// sobre PostgreSQL (usable con pool o tx).
type FinancialTransactionRepo struct {
	q Querier
}

// NewFinancialTransactionRepository construye el adaptador del libro financiero.
// Pasar pool o tx (Querier).
func NewFinancialTransactionRepository(q Querier) *FinancialTransactionRepo {
	return &FinancialTransactionRepo{q: q}
}

const financialTransactionColumns = `id, kind, account_id, destination_account_id, order_id, amount, status, settlement_date, description, created_at`

func scanFinancialTransaction(row pgx.Row) (*entity.FinancialTransaction, error) {
	var t entity.FinancialTransaction
	var destAccountID, orderID *string
	err := row.Scan(
		&t.ID, &t.Kind, &t.AccountID, &destAccountID, &orderID,
		&t.Amount, &t.Status, &t.SettlementDate, &t.Description, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.DestinationAccountID = deref(destAccountID)
	t.OrderID = deref(orderID)
	return &t, nil
}

// Create inserta una transacción del libro.
func (r *FinancialTransactionRepo) Create(tx *entity.FinancialTransaction) error {
	query := `
		INSERT INTO financial_transactions (id, kind, account_id, destination_account_id, order_id, amount, status, settlement_date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.Kind, tx.AccountID, nullIfEmpty(tx.DestinationAccountID), nullIfEmpty(tx.OrderID),
		tx.Amount, tx.Status, tx.SettlementDate, tx.Description, tx.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create financial transaction: %w", err)
	}
	return nil
}

// CreateForOrder inserta la transacción de un pedido apoyándose en el
// constraint único de order_id: si el pedido ya tiene transacción la sentencia
// no inserta nada y se devuelve false sin error (reintento absorbido).
func (r *FinancialTransactionRepo) CreateForOrder(tx *entity.FinancialTransaction) (bool, error) {
	query := `
		INSERT INTO financial_transactions (id, kind, account_id, destination_account_id, order_id, amount, status, settlement_date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (order_id) DO NOTHING
		RETURNING id`
	var id string
	err := r.q.QueryRow(context.Background(), query,
		tx.ID, tx.Kind, tx.AccountID, nullIfEmpty(tx.DestinationAccountID), nullIfEmpty(tx.OrderID),
		tx.Amount, tx.Status, tx.SettlementDate, tx.Description, tx.CreatedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("create order transaction: %w", err)
	}
	return true, nil
}

// GetByID obtiene una transacción por su ID.
func (r *FinancialTransactionRepo) GetByID(id string) (*entity.FinancialTransaction, error) {
	query := `SELECT ` + financialTransactionColumns + ` FROM financial_transactions WHERE id = $1`
	t, err := scanFinancialTransaction(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get financial transaction: %w", err)
	}
	return t, nil
}

// GetByOrder obtiene la transacción asociada a un pedido, o nil si no tiene.
func (r *FinancialTransactionRepo) GetByOrder(orderID string) (*entity.FinancialTransaction, error) {
	query := `SELECT ` + financialTransactionColumns + ` FROM financial_transactions WHERE order_id = $1`
	t, err := scanFinancialTransaction(r.q.QueryRow(context.Background(), query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order transaction: %w", err)
	}
	return t, nil
}

// SetStatus cambia el estado solo si difiere del actual (UPDATE condicional).
// Devuelve false cuando el estado ya era el solicitado; el caller aplica el
// efecto sobre saldos únicamente si hubo cambio. Una transacción inexistente
// es ErrNotFound, nunca un no-op silencioso.
func (r *FinancialTransactionRepo) SetStatus(id, status string, settlementDate *time.Time) (bool, error) {
	query := `
		UPDATE financial_transactions
		SET status = $2, settlement_date = $3
		WHERE id = $1 AND status <> $2`
	tag, err := r.q.Exec(context.Background(), query, id, status, settlementDate)
	if err != nil {
		return false, fmt.Errorf("set transaction status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	// 0 filas: distinguir "ya estaba en ese estado" de "no existe".
	var exists bool
	err = r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM financial_transactions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("set transaction status: %w", err)
	}
	if !exists {
		return false, domain.ErrNotFound
	}
	return false, nil
}

// Delete elimina una transacción. Solo lo usa la cancelación de pedidos; el
// libro es append-only para todo lo demás.
func (r *FinancialTransactionRepo) Delete(id string) error {
	query := `DELETE FROM financial_transactions WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete financial transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Summarize agrega el libro en un rango de fechas: ingresos y egresos
// liquidados, pendientes con signo, y saldo vencido de pedidos.
func (r *FinancialTransactionRepo) Summarize(from, to *time.Time) (*entity.FinancialSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status = 'SETTLED' AND kind = 'REVENUE'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'SETTLED' AND kind = 'EXPENSE'), 0),
			COALESCE(SUM(CASE WHEN kind = 'EXPENSE' THEN -amount ELSE amount END) FILTER (WHERE status = 'PENDING'), 0)
		FROM financial_transactions
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at <= $2)`
	var s entity.FinancialSummary
	err := r.q.QueryRow(context.Background(), query, from, to).Scan(&s.Revenue, &s.Expense, &s.Pending)
	if err != nil {
		return nil, fmt.Errorf("summarize transactions: %w", err)
	}

	// Saldo pendiente de pedidos con fecha límite vencida (cancelados excluidos).
	overdueQuery := `
		SELECT COALESCE(SUM(GREATEST(total_value - discount - paid_amount, 0)), 0)
		FROM orders
		WHERE status <> 'CANCELLED'
		  AND due_date IS NOT NULL AND due_date < now()
		  AND total_value - discount - paid_amount > 0`
	if err := r.q.QueryRow(context.Background(), overdueQuery).Scan(&s.Overdue); err != nil {
		return nil, fmt.Errorf("summarize overdue orders: %w", err)
	}
	return &s, nil
}
