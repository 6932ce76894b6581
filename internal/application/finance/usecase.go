package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

// LedgerUseCase es el libro financiero: transacciones append-only y saldos por
// cuenta mantenidos con incrementos atómicos. Invariante: la suma de
// current_balance es la suma de initial_balance más el efecto con signo de
// todas las transacciones SETTLED.
type LedgerUseCase struct {
	txRunner TxRunner
	txRepo   repository.FinancialTransactionRepository // lecturas fuera de tx
	accRepo  repository.FinancialAccountRepository     // lecturas fuera de tx
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	txRepo repository.FinancialTransactionRepository,
	accRepo repository.FinancialAccountRepository,
) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, txRepo: txRepo, accRepo: accRepo}
}

// PostInput entrada para registrar una transacción manual (no ligada a pedido).
type PostInput struct {
	Kind                 string
	AccountID            string
	DestinationAccountID string // solo TRANSFER
	Amount               decimal.Decimal
	Status               string // vacío = SETTLED
	Description          string
}

// Post inserta la transacción y, si nace SETTLED, aplica su efecto sobre los
// saldos en la misma transacción de BD: REVENUE acredita, EXPENSE debita,
// TRANSFER debita origen y acredita destino (ambos o ninguno).
func (uc *LedgerUseCase) Post(ctx context.Context, input PostInput) (*entity.FinancialTransaction, error) {
	if !entity.ValidTransactionKind(input.Kind) || input.AccountID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.Kind == entity.TransactionKindTransfer {
		if input.DestinationAccountID == "" || input.DestinationAccountID == input.AccountID {
			return nil, domain.ErrInvalidInput
		}
	} else if input.DestinationAccountID != "" {
		return nil, domain.ErrInvalidInput
	}
	status := input.Status
	if status == "" {
		status = entity.TransactionStatusSettled
	}
	if status != entity.TransactionStatusPending && status != entity.TransactionStatusSettled {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkAccounts(input.AccountID, input.DestinationAccountID); err != nil {
		return nil, err
	}

	now := time.Now()
	tx := &entity.FinancialTransaction{
		ID:                   uuid.New().String(),
		Kind:                 input.Kind,
		AccountID:            input.AccountID,
		DestinationAccountID: input.DestinationAccountID,
		Amount:               input.Amount,
		Status:               status,
		Description:          input.Description,
		CreatedAt:            now,
	}
	if status == entity.TransactionStatusSettled {
		tx.SettlementDate = &now
	}
	err := uc.txRunner.RunFinance(ctx, func(
		txRepo repository.FinancialTransactionRepository,
		accRepo repository.FinancialAccountRepository,
	) error {
		if err := txRepo.Create(tx); err != nil {
			return err
		}
		if tx.Status == entity.TransactionStatusSettled {
			return applyEffect(accRepo, tx, 1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// UpdateStatus mueve una transacción entre PENDING y SETTLED. Idempotente:
// repetir la llamada con el mismo estado objetivo no vuelve a aplicar el
// efecto (UPDATE condicional). PENDING→SETTLED aplica el efecto;
// SETTLED→PENDING aplica el inverso.
func (uc *LedgerUseCase) UpdateStatus(ctx context.Context, txID, newStatus string) error {
	if newStatus != entity.TransactionStatusPending && newStatus != entity.TransactionStatusSettled {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunFinance(ctx, func(
		txRepo repository.FinancialTransactionRepository,
		accRepo repository.FinancialAccountRepository,
	) error {
		return uc.SetStatusInTx(txRepo, accRepo, txID, newStatus, time.Now())
	})
}

// SetStatusInTx es UpdateStatus con los repositorios del caller (misma
// transacción). Lo usa el registro de abonos para mantener el libro en paso
// con el estado de pago del pedido.
func (uc *LedgerUseCase) SetStatusInTx(
	txRepo repository.FinancialTransactionRepository,
	accRepo repository.FinancialAccountRepository,
	txID, newStatus string,
	now time.Time,
) error {
	var settlementDate *time.Time
	if newStatus == entity.TransactionStatusSettled {
		settlementDate = &now
	}
	changed, err := txRepo.SetStatus(txID, newStatus, settlementDate)
	if err != nil {
		return err
	}
	if !changed {
		return nil // ya estaba en el estado pedido: no-op
	}
	tx, err := txRepo.GetByID(txID)
	if err != nil {
		return err
	}
	if tx == nil {
		return domain.ErrNotFound
	}
	if newStatus == entity.TransactionStatusSettled {
		return applyEffect(accRepo, tx, 1)
	}
	return applyEffect(accRepo, tx, -1)
}

// PostOrderRevenueInTx registra el ingreso de un pedido entregado usando los
// repositorios del caller. El insert usa el ancla de idempotencia (constraint
// único en order_id + ON CONFLICT DO NOTHING): si el pedido ya tiene
// transacción devuelve false sin error y sin tocar saldos.
func (uc *LedgerUseCase) PostOrderRevenueInTx(
	txRepo repository.FinancialTransactionRepository,
	accRepo repository.FinancialAccountRepository,
	orderID, accountID string,
	amount decimal.Decimal,
	settled bool,
	now time.Time,
) (bool, error) {
	tx := &entity.FinancialTransaction{
		ID:          uuid.New().String(),
		Kind:        entity.TransactionKindRevenue,
		AccountID:   accountID,
		OrderID:     orderID,
		Amount:      amount,
		Status:      entity.TransactionStatusPending,
		Description: "ingreso por pedido " + orderID,
		CreatedAt:   now,
	}
	if settled {
		tx.Status = entity.TransactionStatusSettled
		tx.SettlementDate = &now
	}
	inserted, err := txRepo.CreateForOrder(tx)
	if err != nil {
		return false, err
	}
	if !inserted {
		return false, nil // ya existía: reintento absorbido
	}
	if settled {
		if err := applyEffect(accRepo, tx, 1); err != nil {
			return false, err
		}
	}
	return true, nil
}

// RemoveOrderTransactionInTx elimina la transacción ligada a un pedido
// (cancelación), revirtiendo antes su efecto si estaba SETTLED.
func (uc *LedgerUseCase) RemoveOrderTransactionInTx(
	txRepo repository.FinancialTransactionRepository,
	accRepo repository.FinancialAccountRepository,
	orderID string,
) error {
	tx, err := txRepo.GetByOrder(orderID)
	if err != nil {
		return err
	}
	if tx == nil {
		return nil
	}
	if tx.Status == entity.TransactionStatusSettled {
		if err := applyEffect(accRepo, tx, -1); err != nil {
			return err
		}
	}
	return txRepo.Delete(tx.ID)
}

// Summary devuelve el agregado de solo lectura (ingresos, egresos, pendiente,
// vencido) sobre un rango de fechas.
func (uc *LedgerUseCase) Summary(from, to *time.Time) (*entity.FinancialSummary, error) {
	return uc.txRepo.Summarize(from, to)
}

// GetTransaction obtiene una transacción por ID.
func (uc *LedgerUseCase) GetTransaction(id string) (*entity.FinancialTransaction, error) {
	return uc.txRepo.GetByID(id)
}

// applyEffect aplica el efecto con signo de una transacción sobre los saldos.
// sign = 1 aplica, sign = -1 revierte. Cada suma es un incremento atómico.
func applyEffect(accRepo repository.FinancialAccountRepository, tx *entity.FinancialTransaction, sign int64) error {
	amount := tx.Amount.Mul(decimal.NewFromInt(sign))
	switch tx.Kind {
	case entity.TransactionKindRevenue:
		return accRepo.AddToBalance(tx.AccountID, amount)
	case entity.TransactionKindExpense:
		return accRepo.AddToBalance(tx.AccountID, amount.Neg())
	case entity.TransactionKindTransfer:
		if err := accRepo.AddToBalance(tx.AccountID, amount.Neg()); err != nil {
			return err
		}
		return accRepo.AddToBalance(tx.DestinationAccountID, amount)
	}
	return domain.ErrInvalidInput
}

// checkAccounts valida que existan la(s) cuenta(s) involucradas.
func (uc *LedgerUseCase) checkAccounts(accountID, destinationID string) error {
	acc, err := uc.accRepo.GetByID(accountID)
	if err != nil || acc == nil {
		return domain.ErrNotFound
	}
	if destinationID != "" {
		dest, err := uc.accRepo.GetByID(destinationID)
		if err != nil || dest == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}
