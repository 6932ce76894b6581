package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maximiza-sistemas/distrigas-api/internal/application/apptest"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/stock"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

const (
	prodID = "11111111-1111-1111-1111-111111111111"
	locA   = "22222222-2222-2222-2222-222222222222"
	locB   = "33333333-3333-3333-3333-333333333333"
)

func newStockUC(t *testing.T) (*stock.LedgerUseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	store.SeedProduct(prodID, decimal.NewFromInt(50), decimal.NewFromInt(30))
	store.SeedLocation(locA)
	store.SeedLocation(locB)
	uc := stock.NewLedgerUseCase(
		apptest.NewTxRunner(store),
		apptest.NewProductRepo(store),
		apptest.NewLocationRepo(store),
		apptest.NewRecordRepo(store),
		apptest.NewMovementRepo(store),
	)
	return uc, store
}

func TestRegisterMovement_EntradaCreaRegistroPerezoso(t *testing.T) {
	uc, _ := newStockUC(t)

	rec, err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID:   prodID,
		LocationID:  locA,
		Kind:        entity.MovementKindInbound,
		BottleState: entity.BottleStateFull,
		Quantity:    decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.True(t, rec.FullQty.Equal(decimal.NewFromInt(20)), "la entrada debe sumar al agregado")
	assert.True(t, rec.EmptyQty.IsZero())
}

func TestRegisterMovement_SalidaSinStockRechazada(t *testing.T) {
	uc, store := newStockUC(t)
	store.SeedStock(prodID, locA, decimal.NewFromInt(5))

	_, err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID:   prodID,
		LocationID:  locA,
		Kind:        entity.MovementKindOutbound,
		BottleState: entity.BottleStateFull,
		Quantity:    decimal.NewFromInt(6),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback completo: ni movimiento ni cambio en el agregado.
	assert.Empty(t, store.Movements, "una salida rechazada no debe dejar movimientos")
	rec, err := uc.CurrentQuantity(prodID, locA)
	require.NoError(t, err)
	assert.True(t, rec.FullQty.Equal(decimal.NewFromInt(5)))
}

func TestRegisterMovement_SalidaConOverrideDejaNegativo(t *testing.T) {
	uc, _ := newStockUC(t)

	rec, err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID:     prodID,
		LocationID:    locA,
		Kind:          entity.MovementKindOutbound,
		BottleState:   entity.BottleStateFull,
		Quantity:      decimal.NewFromInt(3),
		AllowNegative: true,
	})
	require.NoError(t, err)
	assert.True(t, rec.FullQty.Equal(decimal.NewFromInt(-3)), "el override administrativo permite negativo")
}

func TestRegisterMovement_AjusteAdmiteSigno(t *testing.T) {
	uc, store := newStockUC(t)
	store.SeedStock(prodID, locA, decimal.NewFromInt(10))

	rec, err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID:   prodID,
		LocationID:  locA,
		Kind:        entity.MovementKindAdjustment,
		BottleState: entity.BottleStateFull,
		Quantity:    decimal.NewFromInt(-4),
		Reason:      "conteo físico",
	})
	require.NoError(t, err)
	assert.True(t, rec.FullQty.Equal(decimal.NewFromInt(6)))
}

func TestRegisterMovement_ValidaEntrada(t *testing.T) {
	uc, _ := newStockUC(t)
	ctx := context.Background()

	// Cantidad negativa en INBOUND
	_, err := uc.RegisterMovement(ctx, stock.MovementInput{
		ProductID: prodID, LocationID: locA,
		Kind: entity.MovementKindInbound, BottleState: entity.BottleStateFull,
		Quantity: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// TRANSFER no entra por RegisterMovement
	_, err = uc.RegisterMovement(ctx, stock.MovementInput{
		ProductID: prodID, LocationID: locA,
		Kind: entity.MovementKindTransfer, BottleState: entity.BottleStateFull,
		Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Estado de cilindro desconocido
	_, err = uc.RegisterMovement(ctx, stock.MovementInput{
		ProductID: prodID, LocationID: locA,
		Kind: entity.MovementKindInbound, BottleState: "BROKEN",
		Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Producto inexistente
	_, err = uc.RegisterMovement(ctx, stock.MovementInput{
		ProductID: "99999999-9999-9999-9999-999999999999", LocationID: locA,
		Kind: entity.MovementKindInbound, BottleState: entity.BottleStateFull,
		Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransfer_MueveEntreSedes(t *testing.T) {
	uc, store := newStockUC(t)
	store.SeedStock(prodID, locA, decimal.NewFromInt(10))

	err := uc.Transfer(context.Background(), stock.TransferInput{
		ProductID:      prodID,
		FromLocationID: locA,
		ToLocationID:   locB,
		BottleState:    entity.BottleStateFull,
		Quantity:       decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	from, _ := uc.CurrentQuantity(prodID, locA)
	to, _ := uc.CurrentQuantity(prodID, locB)
	assert.True(t, from.FullQty.Equal(decimal.NewFromInt(6)))
	assert.True(t, to.FullQty.Equal(decimal.NewFromInt(4)))

	// Dos movimientos enlazados por el mismo transfer_group.
	require.Len(t, store.Movements, 2)
	assert.Equal(t, store.Movements[0].TransferGroup, store.Movements[1].TransferGroup)
	assert.NotEmpty(t, store.Movements[0].TransferGroup)
}

func TestTransfer_SinStockNoDejaNada(t *testing.T) {
	uc, store := newStockUC(t)
	store.SeedStock(prodID, locA, decimal.NewFromInt(3))

	err := uc.Transfer(context.Background(), stock.TransferInput{
		ProductID:      prodID,
		FromLocationID: locA,
		ToLocationID:   locB,
		BottleState:    entity.BottleStateFull,
		Quantity:       decimal.NewFromInt(5),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ambos lados o ninguno.
	assert.Empty(t, store.Movements)
	from, _ := uc.CurrentQuantity(prodID, locA)
	to, _ := uc.CurrentQuantity(prodID, locB)
	assert.True(t, from.FullQty.Equal(decimal.NewFromInt(3)))
	assert.True(t, to.FullQty.IsZero())
}

func TestTransfer_MismaSedeRechazada(t *testing.T) {
	uc, _ := newStockUC(t)
	err := uc.Transfer(context.Background(), stock.TransferInput{
		ProductID:      prodID,
		FromLocationID: locA,
		ToLocationID:   locA,
		BottleState:    entity.BottleStateFull,
		Quantity:       decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReverse_CompensaSinBorrarOriginal(t *testing.T) {
	uc, store := newStockUC(t)

	_, err := uc.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID:   prodID,
		LocationID:  locA,
		Kind:        entity.MovementKindInbound,
		BottleState: entity.BottleStateFull,
		Quantity:    decimal.NewFromInt(8),
	})
	require.NoError(t, err)
	original := store.Movements[0]

	reversal, err := uc.Reverse(context.Background(), original.ID, "")
	require.NoError(t, err)

	assert.Equal(t, original.ID, reversal.ReversalOf)
	assert.Equal(t, entity.MovementKindOutbound, reversal.Kind, "INBOUND se compensa con OUTBOUND")
	assert.True(t, reversal.Quantity.Equal(decimal.NewFromInt(-8)))

	// El original sigue en el log y el agregado vuelve a cero.
	assert.Len(t, store.Movements, 2)
	rec, _ := uc.CurrentQuantity(prodID, locA)
	assert.True(t, rec.FullQty.IsZero())
}

func TestConservacion_AgregadoIgualASumaDelLog(t *testing.T) {
	uc, _ := newStockUC(t)
	ctx := context.Background()

	inputs := []stock.MovementInput{
		{ProductID: prodID, LocationID: locA, Kind: entity.MovementKindInbound, BottleState: entity.BottleStateFull, Quantity: decimal.NewFromInt(30)},
		{ProductID: prodID, LocationID: locA, Kind: entity.MovementKindOutbound, BottleState: entity.BottleStateFull, Quantity: decimal.NewFromInt(12)},
		{ProductID: prodID, LocationID: locA, Kind: entity.MovementKindInbound, BottleState: entity.BottleStateEmpty, Quantity: decimal.NewFromInt(12)},
		{ProductID: prodID, LocationID: locA, Kind: entity.MovementKindAdjustment, BottleState: entity.BottleStateFull, Quantity: decimal.NewFromInt(-3)},
		{ProductID: prodID, LocationID: locA, Kind: entity.MovementKindMaintenanceIn, BottleState: entity.BottleStateMaintenance, Quantity: decimal.NewFromInt(2)},
	}
	for _, in := range inputs {
		_, err := uc.RegisterMovement(ctx, in)
		require.NoError(t, err)
	}

	rec, err := uc.CurrentQuantity(prodID, locA)
	require.NoError(t, err)
	assert.True(t, rec.FullQty.Equal(decimal.NewFromInt(15)))
	assert.True(t, rec.EmptyQty.Equal(decimal.NewFromInt(12)))
	assert.True(t, rec.MaintenanceQty.Equal(decimal.NewFromInt(2)))
}

func TestRemoveRecord_SoloConCantidadesEnCero(t *testing.T) {
	uc, store := newStockUC(t)
	ctx := context.Background()
	store.SeedStock(prodID, locA, decimal.NewFromInt(1))

	err := uc.RemoveRecord(ctx, prodID, locA)
	assert.ErrorIs(t, err, domain.ErrRecordNotEmpty)

	_, err = uc.RegisterMovement(ctx, stock.MovementInput{
		ProductID: prodID, LocationID: locA,
		Kind: entity.MovementKindOutbound, BottleState: entity.BottleStateFull,
		Quantity: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	require.NoError(t, uc.RemoveRecord(ctx, prodID, locA))
}

func TestSetLevels_ValidaRango(t *testing.T) {
	uc, _ := newStockUC(t)

	err := uc.SetLevels(prodID, locA, decimal.NewFromInt(10), decimal.NewFromInt(5))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "max menor que min")

	require.NoError(t, uc.SetLevels(prodID, locA, decimal.NewFromInt(5), decimal.NewFromInt(40)))
	rec, err := uc.CurrentQuantity(prodID, locA)
	require.NoError(t, err)
	assert.True(t, rec.MinLevel.Equal(decimal.NewFromInt(5)))
	assert.True(t, rec.MaxLevel.Equal(decimal.NewFromInt(40)))
}
