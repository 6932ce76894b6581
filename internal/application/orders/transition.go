package orders

import (
	"context"
	"time"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
	domainorder "github.com/maximiza-sistemas/distrigas-api/internal/domain/order"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

// Transition aplica una transición de estado al pedido. La fila del pedido se
// bloquea (SELECT FOR UPDATE) durante toda la operación, así dos transiciones
// concurrentes del mismo pedido se serializan.
//
// Al pasar a DELIVERED se registra exactamente una transacción REVENUE por el
// valor neto del pedido: el insert usa el constraint único sobre order_id, por
// lo que un reintento es un no-op silencioso, nunca un ingreso duplicado.
// accountID vacío usa la cuenta de ingresos por defecto.
//
// Al pasar a CANCELLED (solo desde PENDING) se revierte todo: movimiento
// compensatorio por cada salida de stock, borrado de abonos, borrado de la
// transacción financiera del pedido; el pedido queda marcado CANCELLED. Todo
// o nada: si una compensación falla, ninguna se conserva.
func (uc *LifecycleUseCase) Transition(ctx context.Context, orderID, newStatus, accountID, actorID string) (*entity.Order, error) {
	switch newStatus {
	case entity.OrderStatusInTransit, entity.OrderStatusDelivered, entity.OrderStatusCancelled:
	default:
		return nil, domain.ErrInvalidInput
	}
	if newStatus == entity.OrderStatusDelivered {
		if accountID == "" {
			accountID = uc.revenueAccountID
		}
		if accountID == "" {
			return nil, domain.ErrInvalidInput
		}
		account, err := uc.accountRepo.GetByID(accountID)
		if err != nil || account == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	var result *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		paymentRepo repository.OrderPaymentRepository,
		movRepo repository.StockMovementRepository,
		recRepo repository.StockRecordRepository,
		txRepo repository.FinancialTransactionRepository,
		accRepo repository.FinancialAccountRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		if newStatus == entity.OrderStatusCancelled {
			if order.Status != entity.OrderStatusPending {
				return domain.ErrDeleteNotAllowed
			}
			if err := uc.cancelInTx(orderRepo, paymentRepo, movRepo, recRepo, txRepo, accRepo, order, actorID, now); err != nil {
				return err
			}
			order.Status = entity.OrderStatusCancelled
			result = order
			return nil
		}

		if !domainorder.CanTransition(order.Status, newStatus) {
			return domain.ErrIllegalTransition
		}

		if newStatus == entity.OrderStatusDelivered {
			settled := order.PaymentStatus != entity.PaymentStatusPending
			if _, err := uc.ledger.PostOrderRevenueInTx(
				txRepo, accRepo,
				order.ID, accountID, order.NetValue(), settled, now,
			); err != nil {
				return err
			}
		}

		if err := orderRepo.UpdateStatus(order.ID, newStatus); err != nil {
			return err
		}
		order.Status = newStatus
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// cancelInTx deja stock y libro financiero exactamente como si el pedido no
// hubiera existido: compensa cada movimiento (los originales quedan en el log
// como auditoría), borra los abonos y la transacción del pedido.
func (uc *LifecycleUseCase) cancelInTx(
	orderRepo repository.OrderRepository,
	paymentRepo repository.OrderPaymentRepository,
	movRepo repository.StockMovementRepository,
	recRepo repository.StockRecordRepository,
	txRepo repository.FinancialTransactionRepository,
	accRepo repository.FinancialAccountRepository,
	order *entity.Order,
	actorID string,
	now time.Time,
) error {
	if err := uc.stock.ReverseOrderMovementsInTx(movRepo, recRepo, order.ID, actorID, now); err != nil {
		return err
	}
	if err := paymentRepo.DeleteByOrder(order.ID); err != nil {
		return err
	}
	if err := uc.ledger.RemoveOrderTransactionInTx(txRepo, accRepo, order.ID); err != nil {
		return err
	}
	return orderRepo.UpdateStatus(order.ID, entity.OrderStatusCancelled)
}
