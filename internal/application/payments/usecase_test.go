package payments_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maximiza-sistemas/distrigas-api/internal/application/apptest"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/dto"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/finance"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/orders"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/payments"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/stock"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

const (
	prodID    = "11111111-1111-1111-1111-111111111111"
	locID     = "22222222-2222-2222-2222-222222222222"
	clientID  = "33333333-3333-3333-3333-333333333333"
	accountID = "44444444-4444-4444-4444-444444444444"
	actorID   = "55555555-5555-5555-5555-555555555555"
)

// fixture arma el ciclo completo pedido+abonos sobre el almacén en memoria.
type fixture struct {
	store    *apptest.Store
	orderUC  *orders.LifecycleUseCase
	tracker  *payments.TrackerUseCase
	ledgerUC *finance.LedgerUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := apptest.NewStore()
	store.SeedProduct(prodID, decimal.NewFromInt(50), decimal.NewFromInt(30))
	store.SeedLocation(locID)
	store.SeedClient(clientID)
	store.SeedAccount(accountID, decimal.Zero)
	store.SeedStock(prodID, locID, decimal.NewFromInt(100))

	runner := apptest.NewTxRunner(store)
	stockUC := stock.NewLedgerUseCase(
		runner,
		apptest.NewProductRepo(store),
		apptest.NewLocationRepo(store),
		apptest.NewRecordRepo(store),
		apptest.NewMovementRepo(store),
	)
	ledgerUC := finance.NewLedgerUseCase(
		runner,
		apptest.NewTxRepo(store),
		apptest.NewAccountRepo(store),
	)
	orderUC := orders.NewLifecycleUseCase(
		runner,
		stockUC,
		ledgerUC,
		apptest.NewClientRepo(store),
		apptest.NewProductRepo(store),
		apptest.NewLocationRepo(store),
		apptest.NewAccountRepo(store),
		apptest.NewOrderRepo(store),
		accountID,
	)
	tracker := payments.NewTrackerUseCase(runner, ledgerUC, apptest.NewPaymentRepo(store))
	return &fixture{store: store, orderUC: orderUC, tracker: tracker, ledgerUC: ledgerUC}
}

// newOrder crea un pedido de 10 unidades a 50: total 500.
func (f *fixture) newOrder(t *testing.T) *entity.Order {
	t.Helper()
	order, err := f.orderUC.Create(context.Background(), actorID, dto.CreateOrderRequest{
		ClientID:   clientID,
		LocationID: locID,
		Items: []dto.CreateOrderItemRequest{
			{ProductID: prodID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	return order
}

func (f *fixture) balance() decimal.Decimal {
	return f.store.Accounts[accountID].CurrentBalance
}

func TestRecordPayment_ActualizaSaldoYEstado(t *testing.T) {
	f := newFixture(t)
	order := f.newOrder(t)

	p, err := f.tracker.RecordPayment(context.Background(), order.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentMethodCash, p.Method, "sin método explícito abona en efectivo")

	got := f.store.Orders[order.ID]
	assert.True(t, got.PaidAmount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, entity.PaymentStatusPartial, got.PaymentStatus)

	_, err = f.tracker.RecordPayment(context.Background(), order.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	got = f.store.Orders[order.ID]
	assert.True(t, got.PaidAmount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, entity.PaymentStatusPaid, got.PaymentStatus)
}

func TestRecordPayment_NoExcedeElPendiente(t *testing.T) {
	f := newFixture(t)
	order := f.newOrder(t)

	_, err := f.tracker.RecordPayment(context.Background(), order.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(600),
	})
	require.ErrorIs(t, err, domain.ErrPaymentExceedsPending)
	assert.Empty(t, f.store.Payments)

	// 500 exactos sí; el siguiente peso ya no.
	_, err = f.tracker.RecordPayment(context.Background(), order.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	_, err = f.tracker.RecordPayment(context.Background(), order.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsPending)
}

func TestRecordPayment_MetodoDesconocidoRechazado(t *testing.T) {
	f := newFixture(t)
	order := f.newOrder(t)

	// Un método fuera del catálogo se rechaza en validación, no contra la BD.
	_, err := f.tracker.RecordPayment(context.Background(), order.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(100),
		Method: "BARTER",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.store.Payments)

	// Los métodos conocidos sí pasan.
	_, err = f.tracker.RecordPayment(context.Background(), order.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(100),
		Method: entity.PaymentMethodCard,
	})
	assert.NoError(t, err)
}

func TestRecordPayment_PedidoCanceladoRechazado(t *testing.T) {
	f := newFixture(t)
	order := f.newOrder(t)

	_, err := f.orderUC.Transition(context.Background(), order.ID, entity.OrderStatusCancelled, "", actorID)
	require.NoError(t, err)

	_, err = f.tracker.RecordPayment(context.Background(), order.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestEntregaConAbono_LiquidaElIngreso(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	// Abono parcial antes de entregar: aún no hay transacción que propagar.
	_, err := f.tracker.RecordPayment(ctx, order.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	assert.Empty(t, f.store.Txs)
	assert.True(t, f.balance().IsZero())

	// Al entregar con abonos el ingreso nace SETTLED y acredita de una vez.
	_, err = f.orderUC.Transition(ctx, order.ID, entity.OrderStatusDelivered, "", actorID)
	require.NoError(t, err)
	require.Len(t, f.store.Txs, 1)
	for _, ftx := range f.store.Txs {
		assert.Equal(t, entity.TransactionStatusSettled, ftx.Status)
		assert.True(t, ftx.Amount.Equal(decimal.NewFromInt(500)))
	}
	assert.True(t, f.balance().Equal(decimal.NewFromInt(500)))
}

func TestAbonoTrasEntrega_PropagaAlLibro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	// Entrega sin abonos: ingreso PENDING, saldo intacto.
	_, err := f.orderUC.Transition(ctx, order.ID, entity.OrderStatusDelivered, "", actorID)
	require.NoError(t, err)
	assert.True(t, f.balance().IsZero())

	// El primer abono liquida la transacción del pedido.
	_, err = f.tracker.RecordPayment(ctx, order.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.True(t, f.balance().Equal(decimal.NewFromInt(500)))

	// Un segundo abono no re-aplica el efecto (ya está SETTLED).
	_, err = f.tracker.RecordPayment(ctx, order.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.True(t, f.balance().Equal(decimal.NewFromInt(500)))
}

func TestReversePayment_VueltaACeroRevierteElLibro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	_, err := f.orderUC.Transition(ctx, order.ID, entity.OrderStatusDelivered, "", actorID)
	require.NoError(t, err)
	p, err := f.tracker.RecordPayment(ctx, order.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.True(t, f.balance().Equal(decimal.NewFromInt(500)))

	// Reversar el único abono regresa el pedido y el libro a PENDING.
	require.NoError(t, f.tracker.ReversePayment(ctx, p.ID))

	got := f.store.Orders[order.ID]
	assert.True(t, got.PaidAmount.IsZero())
	assert.Equal(t, entity.PaymentStatusPending, got.PaymentStatus)
	assert.True(t, f.balance().IsZero())
	for _, ftx := range f.store.Txs {
		assert.Equal(t, entity.TransactionStatusPending, ftx.Status)
	}
}

func TestReversePayment_ParcialMantieneLiquidado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	_, err := f.orderUC.Transition(ctx, order.ID, entity.OrderStatusDelivered, "", actorID)
	require.NoError(t, err)
	p1, err := f.tracker.RecordPayment(ctx, order.ID, dto.RecordPaymentRequest{Amount: decimal.NewFromInt(200)})
	require.NoError(t, err)
	_, err = f.tracker.RecordPayment(ctx, order.ID, dto.RecordPaymentRequest{Amount: decimal.NewFromInt(300)})
	require.NoError(t, err)

	require.NoError(t, f.tracker.ReversePayment(ctx, p1.ID))

	// Queda un abono: el pedido sigue PARTIAL y la transacción SETTLED.
	got := f.store.Orders[order.ID]
	assert.True(t, got.PaidAmount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, entity.PaymentStatusPartial, got.PaymentStatus)
	assert.True(t, f.balance().Equal(decimal.NewFromInt(500)))
}

func TestReversePayment_Inexistente(t *testing.T) {
	f := newFixture(t)
	err := f.tracker.ReversePayment(context.Background(), "99999999-9999-9999-9999-999999999999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelarPedidoBorraAbonos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	_, err := f.tracker.RecordPayment(ctx, order.ID, dto.RecordPaymentRequest{Amount: decimal.NewFromInt(200)})
	require.NoError(t, err)
	require.Len(t, f.store.Payments, 1)

	_, err = f.orderUC.Transition(ctx, order.ID, entity.OrderStatusCancelled, "", actorID)
	require.NoError(t, err)
	assert.Empty(t, f.store.Payments, "cancelar borra los abonos del pedido")
}
