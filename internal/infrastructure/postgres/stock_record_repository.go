package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL
// (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador de existencias. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const stockRecordColumns = `product_id, location_id, full_qty, empty_qty, maintenance_qty, min_level, max_level, updated_at`

func scanStockRecord(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(
		&s.ProductID, &s.LocationID, &s.FullQty, &s.EmptyQty, &s.MaintenanceQty,
		&s.MinLevel, &s.MaxLevel, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get obtiene las existencias de un producto en una sede. Si no hay fila
// devuelve un registro con cantidades en cero sin crearla.
func (r *StockRecordRepo) Get(productID, locationID string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records WHERE product_id = $1 AND location_id = $2`
	s, err := scanStockRecord(r.q.QueryRow(context.Background(), query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockRecord{ProductID: productID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene las existencias y bloquea la fila (SELECT FOR UPDATE).
// Si no hay fila devuelve un registro en cero; no hay nada que bloquear.
func (r *StockRecordRepo) GetForUpdate(productID, locationID string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	s, err := scanStockRecord(r.q.QueryRow(context.Background(), query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockRecord{ProductID: productID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("get stock record for update: %w", err)
	}
	return s, nil
}

// ApplyDelta suma delta a la columna del estado indicado en una sola sentencia
// upsert+incremento. El registro se crea perezosamente en el primer movimiento.
func (r *StockRecordRepo) ApplyDelta(productID, locationID, bottleState string, delta decimal.Decimal) (*entity.StockRecord, error) {
	var full, empty, maintenance decimal.Decimal
	switch bottleState {
	case entity.BottleStateFull:
		full = delta
	case entity.BottleStateEmpty:
		empty = delta
	case entity.BottleStateMaintenance:
		maintenance = delta
	default:
		return nil, domain.ErrInvalidInput
	}
	query := `
		INSERT INTO stock_records (product_id, location_id, full_qty, empty_qty, maintenance_qty, min_level, max_level, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, 0, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET
			full_qty        = stock_records.full_qty + EXCLUDED.full_qty,
			empty_qty       = stock_records.empty_qty + EXCLUDED.empty_qty,
			maintenance_qty = stock_records.maintenance_qty + EXCLUDED.maintenance_qty,
			updated_at      = now()
		RETURNING ` + stockRecordColumns
	s, err := scanStockRecord(r.q.QueryRow(context.Background(), query, productID, locationID, full, empty, maintenance))
	if err != nil {
		return nil, fmt.Errorf("apply stock delta: %w", err)
	}
	return s, nil
}

// SetLevels actualiza niveles mínimo y máximo de reposición. Crea la fila si
// aún no hay movimientos para la llave.
func (r *StockRecordRepo) SetLevels(productID, locationID string, minLevel, maxLevel decimal.Decimal) error {
	query := `
		INSERT INTO stock_records (product_id, location_id, full_qty, empty_qty, maintenance_qty, min_level, max_level, updated_at)
		VALUES ($1, $2, 0, 0, 0, $3, $4, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET min_level = EXCLUDED.min_level, max_level = EXCLUDED.max_level, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, productID, locationID, minLevel, maxLevel)
	if err != nil {
		return fmt.Errorf("set stock levels: %w", err)
	}
	return nil
}

// Delete elimina el registro. El caso de uso valida antes que las cantidades
// estén en cero.
func (r *StockRecordRepo) Delete(productID, locationID string) error {
	query := `DELETE FROM stock_records WHERE product_id = $1 AND location_id = $2`
	tag, err := r.q.Exec(context.Background(), query, productID, locationID)
	if err != nil {
		return fmt.Errorf("delete stock record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByLocation lista las existencias de una sede ordenadas por producto.
func (r *StockRecordRepo) ListByLocation(locationID string) ([]*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records WHERE location_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, locationID)
	if err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}
	defer rows.Close()

	var records []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(
			&s.ProductID, &s.LocationID, &s.FullQty, &s.EmptyQty, &s.MaintenanceQty,
			&s.MinLevel, &s.MaxLevel, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		records = append(records, &s)
	}
	return records, rows.Err()
}
