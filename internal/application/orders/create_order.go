package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/application/dto"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

// LifecycleUseCase orquesta el ciclo de vida del pedido: creación (con
// descuento de stock por línea), transiciones de estado y cancelación con
// reverso completo. revenueAccountID es la cuenta de ingresos por defecto
// cuando la entrega no indica una (política explícita, configurable).
type LifecycleUseCase struct {
	txRunner         TxRunner
	stock            StockLedger
	ledger           FinancialLedger
	clientRepo       repository.ClientRepository
	productRepo      repository.ProductRepository
	locationRepo     repository.LocationRepository
	accountRepo      repository.FinancialAccountRepository
	orderRepo        repository.OrderRepository // lecturas fuera de tx
	revenueAccountID string
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(
	txRunner TxRunner,
	stock StockLedger,
	ledger FinancialLedger,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	accountRepo repository.FinancialAccountRepository,
	orderRepo repository.OrderRepository,
	revenueAccountID string,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		txRunner:         txRunner,
		stock:            stock,
		ledger:           ledger,
		clientRepo:       clientRepo,
		productRepo:      productRepo,
		locationRepo:     locationRepo,
		accountRepo:      accountRepo,
		orderRepo:        orderRepo,
		revenueAccountID: revenueAccountID,
	}
}

// Create valida cliente, sede y productos, congela precios y costos, y en una
// sola transacción persiste el pedido con sus líneas y descuenta una salida de
// cilindros llenos por cada línea. Sin sede no hay pedido: la sede es entrada
// obligatoria, no se elige una por defecto.
func (uc *LifecycleUseCase) Create(ctx context.Context, actorID string, in dto.CreateOrderRequest) (*entity.Order, error) {
	if in.ClientID == "" || in.LocationID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Discount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	location, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil || location == nil {
		return nil, domain.ErrNotFound
	}
	if !location.Active {
		return nil, domain.ErrConflict
	}

	// Validar productos y resolver precios fuera de la tx (solo lectura).
	productsByID := make(map[string]*entity.Product)
	for i := range in.Items {
		item := &in.Items[i]
		if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		productsByID[item.ProductID] = product
		if item.UnitPrice.IsZero() {
			in.Items[i].UnitPrice = product.Price
		}
	}

	now := time.Now()
	order := &entity.Order{
		ID:            uuid.New().String(),
		ClientID:      in.ClientID,
		LocationID:    in.LocationID,
		Status:        entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		Discount:      in.Discount,
		PaidAmount:    decimal.Zero,
		DueDate:       in.DueDate,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	total := decimal.Zero
	for _, item := range in.Items {
		product := productsByID[item.ProductID]
		lineTotal := item.Quantity.Mul(item.UnitPrice)
		total = total.Add(lineTotal)
		order.Items = append(order.Items, entity.OrderItem{
			ID:         uuid.New().String(),
			OrderID:    order.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: lineTotal,
			CostPrice:  product.Cost, // congelado al crear
		})
	}
	order.TotalValue = total
	if in.Discount.GreaterThan(total) {
		return nil, domain.ErrInvalidInput
	}

	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.OrderPaymentRepository,
		movRepo repository.StockMovementRepository,
		recRepo repository.StockRecordRepository,
		_ repository.FinancialTransactionRepository,
		_ repository.FinancialAccountRepository,
	) error {
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		for i := range order.Items {
			if err := orderRepo.CreateItem(&order.Items[i]); err != nil {
				return err
			}
		}
		// Una salida de cilindros llenos por línea; sin stock → rollback total.
		for _, item := range order.Items {
			if err := uc.stock.RegisterOutboundInTx(
				movRepo, recRepo,
				item.ProductID, order.LocationID, entity.BottleStateFull,
				item.Quantity, order.ID, actorID, now,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID obtiene un pedido con sus líneas.
func (uc *LifecycleUseCase) GetByID(id string) (*entity.Order, error) {
	return uc.orderRepo.GetByID(id)
}

// List lista pedidos por estado (vacío = todos).
func (uc *LifecycleUseCase) List(status string, limit, offset int) ([]*entity.Order, error) {
	return uc.orderRepo.List(status, limit, offset)
}
