package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository sobre PostgreSQL
// (usable con pool o tx). El log es append-only: solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const stockMovementColumns = `id, product_id, location_id, order_id, kind, bottle_state, quantity, reason, reversal_of, transfer_group, actor_id, created_at`

func scanStockMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var orderID, reversalOf, transferGroup, actorID *string
	err := row.Scan(
		&m.ID, &m.ProductID, &m.LocationID, &orderID, &m.Kind, &m.BottleState,
		&m.Quantity, &m.Reason, &reversalOf, &transferGroup, &actorID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.OrderID = deref(orderID)
	m.ReversalOf = deref(reversalOf)
	m.TransferGroup = deref(transferGroup)
	m.ActorID = deref(actorID)
	return &m, nil
}

// Create inserta un movimiento en el log.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, location_id, order_id, kind, bottle_state, quantity, reason, reversal_of, transfer_group, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.LocationID, nullIfEmpty(movement.OrderID),
		movement.Kind, movement.BottleState, movement.Quantity, movement.Reason,
		nullIfEmpty(movement.ReversalOf), nullIfEmpty(movement.TransferGroup),
		nullIfEmpty(movement.ActorID), movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por su ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanStockMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// ListByOrder lista los movimientos originados por un pedido, en orden de creación.
func (r *StockMovementRepo) ListByOrder(orderID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + ` FROM stock_movements WHERE order_id = $1 ORDER BY created_at`
	return r.list(query, orderID)
}

// ListByKey lista el historial de una llave (producto, sede) con filtro opcional
// de fechas, del más reciente al más antiguo.
func (r *StockMovementRepo) ListByKey(productID, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + stockMovementColumns + `
		FROM stock_movements
		WHERE product_id = $1 AND location_id = $2
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at <= $4)
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6`
	return r.list(query, productID, locationID, from, to, limit, offset)
}

// SumByKey recalcula las cantidades por estado desde el log. Sirve para
// verificar conservación contra el agregado materializado.
func (r *StockMovementRepo) SumByKey(productID, locationID string) (full, empty, maintenance decimal.Decimal, err error) {
	query := `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE bottle_state = 'FULL'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE bottle_state = 'EMPTY'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE bottle_state = 'MAINTENANCE'), 0)
		FROM stock_movements
		WHERE product_id = $1 AND location_id = $2`
	err = r.q.QueryRow(context.Background(), query, productID, locationID).Scan(&full, &empty, &maintenance)
	if err != nil {
		err = fmt.Errorf("sum stock movements: %w", err)
	}
	return full, empty, maintenance, err
}

func (r *StockMovementRepo) list(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var movements []*entity.StockMovement
	for rows.Next() {
		m, err := scanStockMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
