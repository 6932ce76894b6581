package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

var _ repository.OrderPaymentRepository = (*OrderPaymentRepo)(nil)

// OrderPaymentRepo implementación de OrderPaymentRepository sobre PostgreSQL
// (usable con pool o tx).
type OrderPaymentRepo struct {
	q Querier
}

// NewOrderPaymentRepository construye el adaptador de abonos. Pasar pool o tx (Querier).
func NewOrderPaymentRepository(q Querier) *OrderPaymentRepo {
	return &OrderPaymentRepo{q: q}
}

const orderPaymentColumns = `id, order_id, amount, method, payment_date, receipt_ref, created_at`

func scanOrderPayment(row pgx.Row) (*entity.OrderPayment, error) {
	var p entity.OrderPayment
	var receiptRef *string
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.PaymentDate, &receiptRef, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.ReceiptRef = deref(receiptRef)
	return &p, nil
}

// Create inserta un abono.
func (r *OrderPaymentRepo) Create(payment *entity.OrderPayment) error {
	query := `
		INSERT INTO order_payments (id, order_id, amount, method, payment_date, receipt_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.OrderID, payment.Amount, payment.Method,
		payment.PaymentDate, nullIfEmpty(payment.ReceiptRef), payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create order payment: %w", err)
	}
	return nil
}

// GetByID obtiene un abono por su ID.
func (r *OrderPaymentRepo) GetByID(id string) (*entity.OrderPayment, error) {
	query := `SELECT ` + orderPaymentColumns + ` FROM order_payments WHERE id = $1`
	p, err := scanOrderPayment(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get order payment: %w", err)
	}
	return p, nil
}

// ListByOrder lista los abonos de un pedido en orden de pago.
func (r *OrderPaymentRepo) ListByOrder(orderID string) ([]*entity.OrderPayment, error) {
	query := `SELECT ` + orderPaymentColumns + ` FROM order_payments WHERE order_id = $1 ORDER BY payment_date, created_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.OrderPayment
	for rows.Next() {
		p, err := scanOrderPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// Delete elimina un abono (reverso de pago).
func (r *OrderPaymentRepo) Delete(id string) error {
	query := `DELETE FROM order_payments WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete order payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByOrder elimina todos los abonos de un pedido (cancelación).
func (r *OrderPaymentRepo) DeleteByOrder(orderID string) error {
	query := `DELETE FROM order_payments WHERE order_id = $1`
	if _, err := r.q.Exec(context.Background(), query, orderID); err != nil {
		return fmt.Errorf("delete order payments: %w", err)
	}
	return nil
}
