package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maximiza-sistemas/distrigas-api/internal/application/apptest"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/finance"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

const (
	accCaja  = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	accBanco = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
)

func newFinanceUC(t *testing.T) (*finance.LedgerUseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	store.SeedAccount(accCaja, decimal.NewFromInt(1000))
	store.SeedAccount(accBanco, decimal.NewFromInt(500))
	uc := finance.NewLedgerUseCase(
		apptest.NewTxRunner(store),
		apptest.NewTxRepo(store),
		apptest.NewAccountRepo(store),
	)
	return uc, store
}

func balance(t *testing.T, store *apptest.Store, accountID string) decimal.Decimal {
	t.Helper()
	acc, ok := store.Accounts[accountID]
	require.True(t, ok)
	return acc.CurrentBalance
}

func TestPost_IngresoLiquidadoAcredita(t *testing.T) {
	uc, store := newFinanceUC(t)

	tx, err := uc.Post(context.Background(), finance.PostInput{
		Kind:      entity.TransactionKindRevenue,
		AccountID: accCaja,
		Amount:    decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	// Sin estado explícito nace SETTLED con fecha de liquidación.
	assert.Equal(t, entity.TransactionStatusSettled, tx.Status)
	require.NotNil(t, tx.SettlementDate)
	assert.True(t, balance(t, store, accCaja).Equal(decimal.NewFromInt(1200)))
}

func TestPost_EgresoLiquidadoDebita(t *testing.T) {
	uc, store := newFinanceUC(t)

	_, err := uc.Post(context.Background(), finance.PostInput{
		Kind:      entity.TransactionKindExpense,
		AccountID: accCaja,
		Amount:    decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	assert.True(t, balance(t, store, accCaja).Equal(decimal.NewFromInt(700)))
}

func TestPost_TransferenciaMueveAmbosSaldos(t *testing.T) {
	uc, store := newFinanceUC(t)

	_, err := uc.Post(context.Background(), finance.PostInput{
		Kind:                 entity.TransactionKindTransfer,
		AccountID:            accCaja,
		DestinationAccountID: accBanco,
		Amount:               decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	assert.True(t, balance(t, store, accCaja).Equal(decimal.NewFromInt(850)))
	assert.True(t, balance(t, store, accBanco).Equal(decimal.NewFromInt(650)))
}

func TestPost_PendienteNoTocaSaldos(t *testing.T) {
	uc, store := newFinanceUC(t)

	tx, err := uc.Post(context.Background(), finance.PostInput{
		Kind:      entity.TransactionKindRevenue,
		AccountID: accCaja,
		Amount:    decimal.NewFromInt(200),
		Status:    entity.TransactionStatusPending,
	})
	require.NoError(t, err)
	assert.Nil(t, tx.SettlementDate)
	assert.True(t, balance(t, store, accCaja).Equal(decimal.NewFromInt(1000)))
}

func TestPost_ValidaEntrada(t *testing.T) {
	uc, _ := newFinanceUC(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   finance.PostInput
		want error
	}{
		{"tipo desconocido", finance.PostInput{Kind: "LOAN", AccountID: accCaja, Amount: decimal.NewFromInt(1)}, domain.ErrInvalidInput},
		{"monto cero", finance.PostInput{Kind: entity.TransactionKindRevenue, AccountID: accCaja, Amount: decimal.Zero}, domain.ErrInvalidInput},
		{"transfer sin destino", finance.PostInput{Kind: entity.TransactionKindTransfer, AccountID: accCaja, Amount: decimal.NewFromInt(1)}, domain.ErrInvalidInput},
		{"transfer a la misma cuenta", finance.PostInput{Kind: entity.TransactionKindTransfer, AccountID: accCaja, DestinationAccountID: accCaja, Amount: decimal.NewFromInt(1)}, domain.ErrInvalidInput},
		{"destino en no-transfer", finance.PostInput{Kind: entity.TransactionKindRevenue, AccountID: accCaja, DestinationAccountID: accBanco, Amount: decimal.NewFromInt(1)}, domain.ErrInvalidInput},
		{"cuenta inexistente", finance.PostInput{Kind: entity.TransactionKindRevenue, AccountID: "no-existe", Amount: decimal.NewFromInt(1)}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Post(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUpdateStatus_LiquidarEsIdempotente(t *testing.T) {
	uc, store := newFinanceUC(t)
	ctx := context.Background()

	tx, err := uc.Post(ctx, finance.PostInput{
		Kind:      entity.TransactionKindRevenue,
		AccountID: accCaja,
		Amount:    decimal.NewFromInt(200),
		Status:    entity.TransactionStatusPending,
	})
	require.NoError(t, err)

	require.NoError(t, uc.UpdateStatus(ctx, tx.ID, entity.TransactionStatusSettled))
	assert.True(t, balance(t, store, accCaja).Equal(decimal.NewFromInt(1200)))

	// Repetir el mismo estado objetivo no vuelve a aplicar el efecto.
	require.NoError(t, uc.UpdateStatus(ctx, tx.ID, entity.TransactionStatusSettled))
	assert.True(t, balance(t, store, accCaja).Equal(decimal.NewFromInt(1200)))

	// Volver a PENDING revierte.
	require.NoError(t, uc.UpdateStatus(ctx, tx.ID, entity.TransactionStatusPending))
	assert.True(t, balance(t, store, accCaja).Equal(decimal.NewFromInt(1000)))
}

func TestUpdateStatus_EstadoDesconocidoRechazado(t *testing.T) {
	uc, _ := newFinanceUC(t)
	err := uc.UpdateStatus(context.Background(), "cualquiera", "VOID")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStatus_TransaccionInexistente(t *testing.T) {
	uc, store := newFinanceUC(t)

	// Un ID que no existe es 404, no un no-op silencioso; los saldos no se tocan.
	err := uc.UpdateStatus(context.Background(), "99999999-9999-9999-9999-999999999999", entity.TransactionStatusSettled)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, balance(t, store, accCaja).Equal(decimal.NewFromInt(1000)))
}

func TestPostOrderRevenueInTx_DuplicadoAbsorbido(t *testing.T) {
	uc, store := newFinanceUC(t)
	txRepo := apptest.NewTxRepo(store)
	accRepo := apptest.NewAccountRepo(store)
	orderID := "cccccccc-cccc-cccc-cccc-cccccccccccc"
	now := time.Now()

	inserted, err := uc.PostOrderRevenueInTx(txRepo, accRepo, orderID, accCaja, decimal.NewFromInt(500), true, now)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.True(t, balance(t, store, accCaja).Equal(decimal.NewFromInt(1500)))

	// Reintento: el ancla de idempotencia lo absorbe sin tocar saldos.
	inserted, err = uc.PostOrderRevenueInTx(txRepo, accRepo, orderID, accCaja, decimal.NewFromInt(500), true, now)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.True(t, balance(t, store, accCaja).Equal(decimal.NewFromInt(1500)))
}

func TestRemoveOrderTransactionInTx_RevierteLiquidada(t *testing.T) {
	uc, store := newFinanceUC(t)
	txRepo := apptest.NewTxRepo(store)
	accRepo := apptest.NewAccountRepo(store)
	orderID := "dddddddd-dddd-dddd-dddd-dddddddddddd"

	_, err := uc.PostOrderRevenueInTx(txRepo, accRepo, orderID, accCaja, decimal.NewFromInt(400), true, time.Now())
	require.NoError(t, err)
	assert.True(t, balance(t, store, accCaja).Equal(decimal.NewFromInt(1400)))

	require.NoError(t, uc.RemoveOrderTransactionInTx(txRepo, accRepo, orderID))
	assert.True(t, balance(t, store, accCaja).Equal(decimal.NewFromInt(1000)))

	tx, err := txRepo.GetByOrder(orderID)
	require.NoError(t, err)
	assert.Nil(t, tx)

	// Sin transacción ligada es un no-op.
	require.NoError(t, uc.RemoveOrderTransactionInTx(txRepo, accRepo, orderID))
}

func TestSummary_AgregaPorEstado(t *testing.T) {
	uc, _ := newFinanceUC(t)
	ctx := context.Background()

	_, err := uc.Post(ctx, finance.PostInput{Kind: entity.TransactionKindRevenue, AccountID: accCaja, Amount: decimal.NewFromInt(300)})
	require.NoError(t, err)
	_, err = uc.Post(ctx, finance.PostInput{Kind: entity.TransactionKindExpense, AccountID: accCaja, Amount: decimal.NewFromInt(120)})
	require.NoError(t, err)
	_, err = uc.Post(ctx, finance.PostInput{Kind: entity.TransactionKindRevenue, AccountID: accCaja, Amount: decimal.NewFromInt(80), Status: entity.TransactionStatusPending})
	require.NoError(t, err)

	sum, err := uc.Summary(nil, nil)
	require.NoError(t, err)
	assert.True(t, sum.Revenue.Equal(decimal.NewFromInt(300)))
	assert.True(t, sum.Expense.Equal(decimal.NewFromInt(120)))
	assert.True(t, sum.Pending.Equal(decimal.NewFromInt(80)))
	assert.True(t, sum.Overdue.IsZero())
}
