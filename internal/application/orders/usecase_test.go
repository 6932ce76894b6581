package orders_test

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

func newOrderUC(t *testing.T) (*orders.LifecycleUseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	store.SeedProduct(prodID, decimal.NewFromInt(50), decimal.NewFromInt(30))
	store.SeedLocation(locID)
	store.SeedClient(clientID)
	store.SeedAccount(accountID, decimal.Zero)

	runner := apptest.NewTxRunner(store)
	stockUC := stock.NewLedgerUseCase(
		runner,
		apptest.NewProductRepo(store),
		apptest.NewLocationRepo(store),
		apptest.NewRecordRepo(store),
		apptest.NewMovementRepo(store),
	)
	financeUC := finance.NewLedgerUseCase(
		runner,
		apptest.NewTxRepo(store),
		apptest.NewAccountRepo(store),
	)
	uc := orders.NewLifecycleUseCase(
		runner,
		stockUC,
		financeUC,
		apptest.NewClientRepo(store),
		apptest.NewProductRepo(store),
		apptest.NewLocationRepo(store),
		apptest.NewAccountRepo(store),
		apptest.NewOrderRepo(store),
		accountID,
	)
	return uc, store
}

func createOrder(t *testing.T, uc *orders.LifecycleUseCase, qty, price int64) *entity.Order {
	t.Helper()
	order, err := uc.Create(context.Background(), actorID, dto.CreateOrderRequest{
		ClientID:   clientID,
		LocationID: locID,
		Items: []dto.CreateOrderItemRequest{
			{ProductID: prodID, Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.NewFromInt(price)},
		},
	})
	require.NoError(t, err)
	return order
}

func TestCreate_DescuentaStockYCongelaCostos(t *testing.T) {
	uc, store := newOrderUC(t)
	store.SeedStock(prodID, locID, decimal.NewFromInt(25))

	order := createOrder(t, uc, 10, 50)

	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.True(t, order.TotalValue.Equal(decimal.NewFromInt(500)))
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].CostPrice.Equal(decimal.NewFromInt(30)), "el costo se congela al crear")

	rec := store.Records[prodID+"|"+locID]
	require.NotNil(t, rec)
	assert.True(t, rec.FullQty.Equal(decimal.NewFromInt(15)), "cada línea descuenta cilindros llenos")

	// La salida queda ligada al pedido en el log.
	require.Len(t, store.Movements, 1)
	assert.Equal(t, order.ID, store.Movements[0].OrderID)
	assert.Equal(t, entity.MovementKindOutbound, store.Movements[0].Kind)
}

func TestCreate_PrecioCeroUsaElDelProducto(t *testing.T) {
	uc, store := newOrderUC(t)
	store.SeedStock(prodID, locID, decimal.NewFromInt(10))

	order, err := uc.Create(context.Background(), actorID, dto.CreateOrderRequest{
		ClientID:   clientID,
		LocationID: locID,
		Items: []dto.CreateOrderItemRequest{
			{ProductID: prodID, Quantity: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromInt(50)))
	assert.True(t, order.TotalValue.Equal(decimal.NewFromInt(100)))
}

func TestCreate_SinStockNoDejaNada(t *testing.T) {
	uc, store := newOrderUC(t)
	store.SeedStock(prodID, locID, decimal.NewFromInt(3))

	_, err := uc.Create(context.Background(), actorID, dto.CreateOrderRequest{
		ClientID:   clientID,
		LocationID: locID,
		Items: []dto.CreateOrderItemRequest{
			{ProductID: prodID, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Todo o nada: ni pedido, ni líneas, ni movimientos, ni descuento parcial.
	assert.Empty(t, store.Orders)
	assert.Empty(t, store.Items)
	assert.Empty(t, store.Movements)
	assert.True(t, store.Records[prodID+"|"+locID].FullQty.Equal(decimal.NewFromInt(3)))
}

func TestCreate_ValidaEntrada(t *testing.T) {
	uc, _ := newOrderUC(t)
	ctx := context.Background()
	item := dto.CreateOrderItemRequest{ProductID: prodID, Quantity: decimal.NewFromInt(1)}

	cases := []struct {
		name string
		in   dto.CreateOrderRequest
		want error
	}{
		{"sin sede", dto.CreateOrderRequest{ClientID: clientID, Items: []dto.CreateOrderItemRequest{item}}, domain.ErrInvalidInput},
		{"sin líneas", dto.CreateOrderRequest{ClientID: clientID, LocationID: locID}, domain.ErrInvalidInput},
		{"sede inexistente", dto.CreateOrderRequest{ClientID: clientID, LocationID: "otra", Items: []dto.CreateOrderItemRequest{item}}, domain.ErrNotFound},
		{"cliente inexistente", dto.CreateOrderRequest{ClientID: "otro", LocationID: locID, Items: []dto.CreateOrderItemRequest{item}}, domain.ErrNotFound},
		{"cantidad cero", dto.CreateOrderRequest{ClientID: clientID, LocationID: locID, Items: []dto.CreateOrderItemRequest{{ProductID: prodID, Quantity: decimal.Zero}}}, domain.ErrInvalidInput},
		{"descuento mayor al total", dto.CreateOrderRequest{ClientID: clientID, LocationID: locID, Discount: decimal.NewFromInt(100), Items: []dto.CreateOrderItemRequest{item}}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, actorID, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestTransition_EntregaRegistraIngresoNeto(t *testing.T) {
	uc, store := newOrderUC(t)
	store.SeedStock(prodID, locID, decimal.NewFromInt(25))
	order := createOrder(t, uc, 10, 50)

	updated, err := uc.Transition(context.Background(), order.ID, entity.OrderStatusDelivered, "", actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, updated.Status)

	// Exactamente una transacción REVENUE por el valor neto, PENDING porque
	// el pedido aún no tiene abonos; el saldo no se toca.
	require.Len(t, store.Txs, 1)
	for _, ftx := range store.Txs {
		assert.Equal(t, entity.TransactionKindRevenue, ftx.Kind)
		assert.Equal(t, order.ID, ftx.OrderID)
		assert.True(t, ftx.Amount.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, entity.TransactionStatusPending, ftx.Status)
	}
	assert.True(t, store.Accounts[accountID].CurrentBalance.IsZero())
}

func TestTransition_EntregaRepetidaNoDuplicaIngreso(t *testing.T) {
	uc, store := newOrderUC(t)
	store.SeedStock(prodID, locID, decimal.NewFromInt(25))
	order := createOrder(t, uc, 10, 50)

	_, err := uc.Transition(context.Background(), order.ID, entity.OrderStatusInTransit, "", actorID)
	require.NoError(t, err)
	_, err = uc.Transition(context.Background(), order.ID, entity.OrderStatusDelivered, "", actorID)
	require.NoError(t, err)

	// Reintentar la entrega es ilegal una vez entregado, y aunque el insert
	// se repitiera el ancla de idempotencia lo absorbería.
	_, err = uc.Transition(context.Background(), order.ID, entity.OrderStatusDelivered, "", actorID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Len(t, store.Txs, 1)
}

func TestTransition_TransicionesIlegales(t *testing.T) {
	uc, store := newOrderUC(t)
	store.SeedStock(prodID, locID, decimal.NewFromInt(25))
	order := createOrder(t, uc, 2, 50)

	_, err := uc.Transition(context.Background(), order.ID, entity.OrderStatusDelivered, "", actorID)
	require.NoError(t, err)

	// DELIVERED es terminal salvo por cancelación, y esta solo aplica a PENDING.
	_, err = uc.Transition(context.Background(), order.ID, entity.OrderStatusInTransit, "", actorID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	_, err = uc.Transition(context.Background(), order.ID, entity.OrderStatusCancelled, "", actorID)
	assert.ErrorIs(t, err, domain.ErrDeleteNotAllowed)

	_, err = uc.Transition(context.Background(), order.ID, "PENDING", "", actorID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransition_EntregaSinCuentaConfigurada(t *testing.T) {
	_, store := newOrderUC(t)
	store.SeedStock(prodID, locID, decimal.NewFromInt(25))

	runner := apptest.NewTxRunner(store)
	stockUC := stock.NewLedgerUseCase(runner, apptest.NewProductRepo(store), apptest.NewLocationRepo(store), apptest.NewRecordRepo(store), apptest.NewMovementRepo(store))
	financeUC := finance.NewLedgerUseCase(runner, apptest.NewTxRepo(store), apptest.NewAccountRepo(store))
	// Sin cuenta de ingresos por defecto.
	bare := orders.NewLifecycleUseCase(runner, stockUC, financeUC,
		apptest.NewClientRepo(store), apptest.NewProductRepo(store), apptest.NewLocationRepo(store),
		apptest.NewAccountRepo(store), apptest.NewOrderRepo(store), "")

	order := createOrder(t, bare, 1, 50)

	_, err := bare.Transition(context.Background(), order.ID, entity.OrderStatusDelivered, "", actorID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Con cuenta explícita en la petición sí entra.
	_, err = bare.Transition(context.Background(), order.ID, entity.OrderStatusDelivered, accountID, actorID)
	assert.NoError(t, err)
}

func TestTransition_CancelarRestauraStockYLibro(t *testing.T) {
	uc, store := newOrderUC(t)
	store.SeedStock(prodID, locID, decimal.NewFromInt(25))
	order := createOrder(t, uc, 10, 50)

	updated, err := uc.Transition(context.Background(), order.ID, entity.OrderStatusCancelled, "", actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, updated.Status)

	// El stock vuelve y el log conserva original + compensación.
	assert.True(t, store.Records[prodID+"|"+locID].FullQty.Equal(decimal.NewFromInt(25)))
	require.Len(t, store.Movements, 2)
	comp := store.Movements[1]
	assert.Equal(t, store.Movements[0].ID, comp.ReversalOf)
	assert.Equal(t, entity.MovementKindInbound, comp.Kind)

	// El pedido cancelado queda como marcador; sin transacción ligada.
	assert.Equal(t, entity.OrderStatusCancelled, store.Orders[order.ID].Status)
	assert.Empty(t, store.Txs)
}

func TestTransition_CancelarTrasReversoManualNoSobreRestaura(t *testing.T) {
	_, store := newOrderUC(t)
	store.SeedStock(prodID, locID, decimal.NewFromInt(25))
	ctx := context.Background()

	runner := apptest.NewTxRunner(store)
	stockUC := stock.NewLedgerUseCase(runner, apptest.NewProductRepo(store), apptest.NewLocationRepo(store), apptest.NewRecordRepo(store), apptest.NewMovementRepo(store))
	financeUC := finance.NewLedgerUseCase(runner, apptest.NewTxRepo(store), apptest.NewAccountRepo(store))
	orderUC := orders.NewLifecycleUseCase(runner, stockUC, financeUC,
		apptest.NewClientRepo(store), apptest.NewProductRepo(store), apptest.NewLocationRepo(store),
		apptest.NewAccountRepo(store), apptest.NewOrderRepo(store), accountID)

	order := createOrder(t, orderUC, 10, 50)
	require.True(t, store.Records[prodID+"|"+locID].FullQty.Equal(decimal.NewFromInt(15)))

	// Reverso manual de la salida del pedido: el stock ya volvió a 25.
	_, err := stockUC.Reverse(ctx, store.Movements[0].ID, actorID)
	require.NoError(t, err)
	require.True(t, store.Records[prodID+"|"+locID].FullQty.Equal(decimal.NewFromInt(25)))

	// Cancelar después compensa salida Y reverso manual: el neto es cero y el
	// stock queda exactamente como antes del pedido, no con 10 de más.
	_, err = orderUC.Transition(ctx, order.ID, entity.OrderStatusCancelled, "", actorID)
	require.NoError(t, err)
	assert.True(t, store.Records[prodID+"|"+locID].FullQty.Equal(decimal.NewFromInt(25)),
		"cancelar no debe volver a sumar una salida ya reversada")
	assert.Len(t, store.Movements, 4, "salida, reverso manual y una compensación por cada uno")
}

func TestTransition_PedidoInexistente(t *testing.T) {
	uc, _ := newOrderUC(t)
	_, err := uc.Transition(context.Background(), "99999999-9999-9999-9999-999999999999", entity.OrderStatusInTransit, "", actorID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
