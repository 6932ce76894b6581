package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/application/dto"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
	domainorder "github.com/maximiza-sistemas/distrigas-api/internal/domain/order"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

// TrackerUseCase acumula abonos parciales contra el saldo pendiente del pedido
// y mantiene la transacción financiera ligada en paso con el estado de pago.
type TrackerUseCase struct {
	txRunner    TxRunner
	ledger      FinancialLedger
	paymentRepo repository.OrderPaymentRepository // lecturas fuera de tx
}

// NewTrackerUseCase construye el caso de uso.
func NewTrackerUseCase(txRunner TxRunner, ledger FinancialLedger, paymentRepo repository.OrderPaymentRepository) *TrackerUseCase {
	return &TrackerUseCase{txRunner: txRunner, ledger: ledger, paymentRepo: paymentRepo}
}

// RecordPayment registra un abono: bloquea la fila del pedido, rechaza montos
// que excedan el saldo pendiente (total − descuento − abonado), incrementa
// paid_amount, recalcula payment_status y propaga la liquidación a la
// transacción del pedido — todo en una transacción de BD.
func (uc *TrackerUseCase) RecordPayment(ctx context.Context, orderID string, in dto.RecordPaymentRequest) (*entity.OrderPayment, error) {
	if orderID == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	method := in.Method
	if method == "" {
		method = entity.PaymentMethodCash
	}
	if !entity.ValidPaymentMethod(method) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	payment := &entity.OrderPayment{
		ID:          uuid.New().String(),
		OrderID:     orderID,
		Amount:      in.Amount,
		Method:      method,
		PaymentDate: now,
		ReceiptRef:  in.ReceiptRef,
		CreatedAt:   now,
	}
	err := uc.txRunner.RunPayments(ctx, func(
		orderRepo repository.OrderRepository,
		paymentRepo repository.OrderPaymentRepository,
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
		if order.Status == entity.OrderStatusCancelled {
			return domain.ErrConflict
		}
		if in.Amount.GreaterThan(order.PendingAmount()) {
			return domain.ErrPaymentExceedsPending
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}
		paid := order.PaidAmount.Add(in.Amount)
		status := domainorder.RecomputePaymentStatus(order.TotalValue, order.Discount, paid)
		if err := orderRepo.UpdatePaymentState(orderID, paid, status); err != nil {
			return err
		}
		return uc.propagate(txRepo, accRepo, orderID, status, now)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// ReversePayment deshace un abono: borra el registro, descuenta paid_amount,
// recalcula payment_status y re-propaga al libro financiero en la misma
// transacción. Se permite en cualquier estado del pedido; la regla es que el
// libro nunca quede desfasado del estado de pago.
func (uc *TrackerUseCase) ReversePayment(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return uc.txRunner.RunPayments(ctx, func(
		orderRepo repository.OrderRepository,
		paymentRepo repository.OrderPaymentRepository,
		txRepo repository.FinancialTransactionRepository,
		accRepo repository.FinancialAccountRepository,
	) error {
		payment, err := paymentRepo.GetByID(paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return domain.ErrNotFound
		}
		order, err := orderRepo.GetForUpdate(payment.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := paymentRepo.Delete(paymentID); err != nil {
			return err
		}
		paid := order.PaidAmount.Sub(payment.Amount)
		if paid.LessThan(decimal.Zero) {
			paid = decimal.Zero
		}
		status := domainorder.RecomputePaymentStatus(order.TotalValue, order.Discount, paid)
		if err := orderRepo.UpdatePaymentState(order.ID, paid, status); err != nil {
			return err
		}
		return uc.propagate(txRepo, accRepo, order.ID, status, now)
	})
}

// ListByOrder lista los abonos de un pedido.
func (uc *TrackerUseCase) ListByOrder(orderID string) ([]*entity.OrderPayment, error) {
	return uc.paymentRepo.ListByOrder(orderID)
}

// propagate mantiene la transacción del pedido en paso con el estado de pago:
// SETTLED en cuanto hay algún abono, de vuelta a PENDING si el saldo abonado
// vuelve a cero. Si el pedido aún no tiene transacción (no entregado), no hay
// nada que propagar.
func (uc *TrackerUseCase) propagate(
	txRepo repository.FinancialTransactionRepository,
	accRepo repository.FinancialAccountRepository,
	orderID, paymentStatus string,
	now time.Time,
) error {
	ftx, err := txRepo.GetByOrder(orderID)
	if err != nil {
		return err
	}
	if ftx == nil {
		return nil
	}
	target := entity.TransactionStatusSettled
	if paymentStatus == entity.PaymentStatusPending {
		target = entity.TransactionStatusPending
	}
	return uc.ledger.SetStatusInTx(txRepo, accRepo, ftx.ID, target, now)
}
