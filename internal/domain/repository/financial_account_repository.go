package repository

import (
	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

// FinancialAccountRepository define el puerto de persistencia de cuentas.
type FinancialAccountRepository interface {
	Create(account *entity.FinancialAccount) error
	GetByID(id string) (*entity.FinancialAccount, error)
	List() ([]*entity.FinancialAccount, error)
	// AddToBalance suma delta a current_balance en una sentencia atómica
	// (UPDATE ... SET current_balance = current_balance + delta).
	AddToBalance(id string, delta decimal.Decimal) error
}
