package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/finance"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/orders"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/payments"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/stock"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

// Ensure TxRunner implements los runners de cada caso de uso.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ orders.TxRunner = (*TxRunner)(nil)
var _ finance.TxRunner = (*TxRunner)(nil)
var _ payments.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run inicia una transacción con los repos del libro de stock atados a la tx.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	recRepo repository.StockRecordRepository,
) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(NewStockMovementRepository(tx), NewStockRecordRepository(tx))
	})
}

// RunOrder inicia una transacción con todos los repos que toca el ciclo de
// vida del pedido (crear, entregar, cancelar).
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	paymentRepo repository.OrderPaymentRepository,
	movRepo repository.StockMovementRepository,
	recRepo repository.StockRecordRepository,
	txRepo repository.FinancialTransactionRepository,
	accRepo repository.FinancialAccountRepository,
) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewOrderRepository(tx),
			NewOrderPaymentRepository(tx),
			NewStockMovementRepository(tx),
			NewStockRecordRepository(tx),
			NewFinancialTransactionRepository(tx),
			NewFinancialAccountRepository(tx),
		)
	})
}

// RunFinance inicia una transacción con los repos del libro financiero.
func (r *TxRunner) RunFinance(ctx context.Context, fn func(
	txRepo repository.FinancialTransactionRepository,
	accRepo repository.FinancialAccountRepository,
) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(NewFinancialTransactionRepository(tx), NewFinancialAccountRepository(tx))
	})
}

// RunPayments inicia una transacción con los repos que toca el registro de abonos.
func (r *TxRunner) RunPayments(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	paymentRepo repository.OrderPaymentRepository,
	txRepo repository.FinancialTransactionRepository,
	accRepo repository.FinancialAccountRepository,
) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewOrderRepository(tx),
			NewOrderPaymentRepository(tx),
			NewFinancialTransactionRepository(tx),
			NewFinancialAccountRepository(tx),
		)
	})
}
