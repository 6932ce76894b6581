package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/maximiza-sistemas/distrigas-api/internal/application/dto"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

// AccountUseCase casos de uso CRUD para cuentas financieras. CurrentBalance
// nace igual a InitialBalance y solo lo mueven las transacciones del libro.
type AccountUseCase struct {
	repo repository.FinancialAccountRepository
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(repo repository.FinancialAccountRepository) *AccountUseCase {
	return &AccountUseCase{repo: repo}
}

// Create crea una cuenta.
func (uc *AccountUseCase) Create(in dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	account := &entity.FinancialAccount{
		ID:             uuid.New().String(),
		Name:           in.Name,
		InitialBalance: in.InitialBalance,
		CurrentBalance: in.InitialBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// GetByID obtiene una cuenta con su saldo actual.
func (uc *AccountUseCase) GetByID(id string) (*dto.AccountResponse, error) {
	account, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	return toAccountResponse(account), nil
}

// List lista todas las cuentas.
func (uc *AccountUseCase) List() ([]*dto.AccountResponse, error) {
	accounts, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out, nil
}

func toAccountResponse(a *entity.FinancialAccount) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		InitialBalance: a.InitialBalance,
		CurrentBalance: a.CurrentBalance,
	}
}
