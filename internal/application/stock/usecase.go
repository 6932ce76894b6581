package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

// LedgerUseCase es el libro de stock: registra movimientos inmutables y mantiene
// el agregado por (producto, sede) mediante upsert+incremento atómico, con
// bloqueo de fila (SELECT FOR UPDATE) para la validación de stock no negativo.
type LedgerUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	recordRepo   repository.StockRecordRepository   // lecturas fuera de tx
	movementRepo repository.StockMovementRepository // lecturas fuera de tx
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	recordRepo repository.StockRecordRepository,
	movementRepo repository.StockMovementRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		recordRepo:   recordRepo,
		movementRepo: movementRepo,
	}
}

// MovementInput entrada para registrar un movimiento simple (no TRANSFER).
// Quantity es positiva para INBOUND/OUTBOUND/MAINTENANCE_IN; ADJUSTMENT admite signo.
type MovementInput struct {
	ProductID     string
	LocationID    string
	Kind          string
	BottleState   string
	Quantity      decimal.Decimal
	Reason        string
	ActorID       string
	AllowNegative bool // override administrativo: permite dejar stock negativo
}

// TransferInput entrada para un traslado entre sedes.
type TransferInput struct {
	ProductID      string
	FromLocationID string
	ToLocationID   string
	BottleState    string
	Quantity       decimal.Decimal
	Reason         string
	ActorID        string
}

// RegisterMovement valida la entrada, inicia una transacción y aplica el
// movimiento: agrega el evento al log y suma la cantidad con signo a la columna
// del estado de cilindro en una sola sentencia. Commit o Rollback completo.
func (uc *LedgerUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.StockRecord, error) {
	if input.ProductID == "" || input.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidBottleState(input.BottleState) || input.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	switch input.Kind {
	case entity.MovementKindInbound, entity.MovementKindOutbound, entity.MovementKindMaintenanceIn:
		if input.Quantity.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementKindAdjustment:
		// cantidad con signo
	default:
		// TRANSFER entra por Transfer(); cualquier otro tipo es inválido
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkCatalog(input.ProductID, input.LocationID); err != nil {
		return nil, err
	}

	signed := input.Quantity
	if input.Kind == entity.MovementKindOutbound {
		signed = input.Quantity.Neg()
	}
	now := time.Now()
	var record *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		recRepo repository.StockRecordRepository,
	) error {
		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			ProductID:   input.ProductID,
			LocationID:  input.LocationID,
			Kind:        input.Kind,
			BottleState: input.BottleState,
			Quantity:    signed,
			Reason:      input.Reason,
			ActorID:     input.ActorID,
			CreatedAt:   now,
		}
		rec, err := uc.apply(movRepo, recRepo, mov, input.AllowNegative)
		if err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Transfer resta en la sede origen y suma en la destino como dos movimientos
// enlazados por transfer_group, en la misma transacción: ambos o ninguno.
func (uc *LedgerUseCase) Transfer(ctx context.Context, input TransferInput) error {
	if input.ProductID == "" || input.FromLocationID == "" || input.ToLocationID == "" {
		return domain.ErrInvalidInput
	}
	if input.FromLocationID == input.ToLocationID || !input.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if !entity.ValidBottleState(input.BottleState) {
		return domain.ErrInvalidInput
	}
	if err := uc.checkCatalog(input.ProductID, input.FromLocationID); err != nil {
		return err
	}
	if loc, _ := uc.locationRepo.GetByID(input.ToLocationID); loc == nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	group := uuid.New().String()
	return uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		recRepo repository.StockRecordRepository,
	) error {
		out := &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     input.ProductID,
			LocationID:    input.FromLocationID,
			Kind:          entity.MovementKindTransfer,
			BottleState:   input.BottleState,
			Quantity:      input.Quantity.Neg(),
			Reason:        input.Reason,
			TransferGroup: group,
			ActorID:       input.ActorID,
			CreatedAt:     now,
		}
		if _, err := uc.apply(movRepo, recRepo, out, false); err != nil {
			return err
		}
		in := &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     input.ProductID,
			LocationID:    input.ToLocationID,
			Kind:          entity.MovementKindTransfer,
			BottleState:   input.BottleState,
			Quantity:      input.Quantity,
			Reason:        input.Reason,
			TransferGroup: group,
			ActorID:       input.ActorID,
			CreatedAt:     now,
		}
		_, err := uc.apply(movRepo, recRepo, in, false)
		return err
	})
}

// Reverse agrega un movimiento compensatorio: cantidad negada y tipo invertido
// (INBOUND↔OUTBOUND; los demás conservan su tipo). El original no se modifica
// ni se borra: ambos quedan en el log como rastro de auditoría.
func (uc *LedgerUseCase) Reverse(ctx context.Context, movementID, actorID string) (*entity.StockMovement, error) {
	original, err := uc.movementRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, domain.ErrNotFound
	}
	var reversal *entity.StockMovement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		recRepo repository.StockRecordRepository,
	) error {
		rev, err := uc.reverseInTx(movRepo, recRepo, original, actorID, time.Now())
		if err != nil {
			return err
		}
		reversal = rev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reversal, nil
}

// CurrentQuantity devuelve el agregado actual; cantidades en cero si no existe
// fila (nunca la crea).
func (uc *LedgerUseCase) CurrentQuantity(productID, locationID string) (*entity.StockRecord, error) {
	return uc.recordRepo.Get(productID, locationID)
}

// ListLocationStock lista las existencias de una sede.
func (uc *LedgerUseCase) ListLocationStock(locationID string) ([]*entity.StockRecord, error) {
	return uc.recordRepo.ListByLocation(locationID)
}

// ListMovements lista los movimientos de un (producto, sede) en un rango de fechas.
func (uc *LedgerUseCase) ListMovements(productID, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movementRepo.ListByKey(productID, locationID, from, to, limit, offset)
}

// SetLevels actualiza los niveles mínimo y máximo de reposición de un registro.
func (uc *LedgerUseCase) SetLevels(productID, locationID string, minLevel, maxLevel decimal.Decimal) error {
	if minLevel.LessThan(decimal.Zero) || maxLevel.LessThan(minLevel) {
		return domain.ErrInvalidInput
	}
	return uc.recordRepo.SetLevels(productID, locationID, minLevel, maxLevel)
}

// RemoveRecord elimina administrativamente un registro de stock. Solo se
// permite cuando todas las cantidades son cero; la fila se bloquea dentro de
// la transacción para que nadie le sume mientras se borra.
func (uc *LedgerUseCase) RemoveRecord(ctx context.Context, productID, locationID string) error {
	return uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		recRepo repository.StockRecordRepository,
	) error {
		rec, err := recRepo.GetForUpdate(productID, locationID)
		if err != nil {
			return err
		}
		if !rec.IsEmpty() {
			return domain.ErrRecordNotEmpty
		}
		return recRepo.Delete(productID, locationID)
	})
}

// RegisterOutboundInTx registra una salida usando los repositorios del caller
// (misma transacción). Lo usa el ciclo de vida de pedidos para descontar cada
// línea dentro de la transacción de creación del pedido.
func (uc *LedgerUseCase) RegisterOutboundInTx(
	movRepo repository.StockMovementRepository,
	recRepo repository.StockRecordRepository,
	productID, locationID, bottleState string,
	quantity decimal.Decimal,
	orderID, actorID string,
	now time.Time,
) error {
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   productID,
		LocationID:  locationID,
		OrderID:     orderID,
		Kind:        entity.MovementKindOutbound,
		BottleState: bottleState,
		Quantity:    quantity.Neg(),
		Reason:      "despacho de pedido",
		ActorID:     actorID,
		CreatedAt:   now,
	}
	_, err := uc.apply(movRepo, recRepo, mov, false)
	return err
}

// ReverseOrderMovementsInTx compensa todos los movimientos de un pedido usando
// los repositorios del caller (cancelación: todo o nada). Se compensa TODO
// movimiento ligado al pedido, incluidas compensaciones previas: la suma con
// signo de los nuevos reversos anula exactamente el efecto neto del pedido,
// aunque alguna salida ya hubiera sido reversada a mano.
func (uc *LedgerUseCase) ReverseOrderMovementsInTx(
	movRepo repository.StockMovementRepository,
	recRepo repository.StockRecordRepository,
	orderID, actorID string,
	now time.Time,
) error {
	movements, err := movRepo.ListByOrder(orderID)
	if err != nil {
		return err
	}
	for _, mov := range movements {
		if _, err := uc.reverseInTx(movRepo, recRepo, mov, actorID, now); err != nil {
			return err
		}
	}
	return nil
}

// apply bloquea la fila del agregado, valida que la salida no deje cantidades
// negativas (salvo override) y aplica el delta en una sola sentencia
// upsert+incremento; luego agrega el evento al log.
func (uc *LedgerUseCase) apply(
	movRepo repository.StockMovementRepository,
	recRepo repository.StockRecordRepository,
	mov *entity.StockMovement,
	allowNegative bool,
) (*entity.StockRecord, error) {
	if mov.Quantity.LessThan(decimal.Zero) && !allowNegative {
		current, err := recRepo.GetForUpdate(mov.ProductID, mov.LocationID)
		if err != nil {
			return nil, err
		}
		if current.QtyFor(mov.BottleState).Add(mov.Quantity).LessThan(decimal.Zero) {
			return nil, domain.ErrInsufficientStock
		}
	}
	record, err := recRepo.ApplyDelta(mov.ProductID, mov.LocationID, mov.BottleState, mov.Quantity)
	if err != nil {
		return nil, err
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return record, nil
}

// reverseInTx construye y aplica la compensación de un movimiento. Las
// compensaciones no validan stock: deben poder aplicarse siempre para que la
// cancelación sea todo o nada.
func (uc *LedgerUseCase) reverseInTx(
	movRepo repository.StockMovementRepository,
	recRepo repository.StockRecordRepository,
	original *entity.StockMovement,
	actorID string,
	now time.Time,
) (*entity.StockMovement, error) {
	reversal := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   original.ProductID,
		LocationID:  original.LocationID,
		OrderID:     original.OrderID,
		Kind:        flipKind(original.Kind),
		BottleState: original.BottleState,
		Quantity:    original.Quantity.Neg(),
		Reason:      "reverso de " + original.ID,
		ReversalOf:  original.ID,
		ActorID:     actorID,
		CreatedAt:   now,
	}
	if _, err := uc.apply(movRepo, recRepo, reversal, true); err != nil {
		return nil, err
	}
	return reversal, nil
}

// flipKind invierte INBOUND↔OUTBOUND; los demás tipos conservan el suyo
// (el signo de la cantidad ya expresa la dirección).
func flipKind(kind string) string {
	switch kind {
	case entity.MovementKindInbound:
		return entity.MovementKindOutbound
	case entity.MovementKindOutbound:
		return entity.MovementKindInbound
	}
	return kind
}

// checkCatalog valida existencia de producto y sede.
func (uc *LedgerUseCase) checkCatalog(productID, locationID string) error {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	location, err := uc.locationRepo.GetByID(locationID)
	if err != nil || location == nil {
		return domain.ErrNotFound
	}
	return nil
}
