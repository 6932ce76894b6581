package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

var _ repository.FinancialAccountRepository = (*FinancialAccountRepo)(nil)

// FinancialAccountRepo implementación de FinancialAccountRepository sobre
// PostgreSQL (usable con pool o tx).
type FinancialAccountRepo struct {
	q Querier
}

// NewFinancialAccountRepository construye el adaptador de cuentas. Pasar pool o tx (Querier).
func NewFinancialAccountRepository(q Querier) *FinancialAccountRepo {
	return &FinancialAccountRepo{q: q}
}

const financialAccountColumns = `id, name, initial_balance, current_balance, created_at, updated_at`

// Create inserta una cuenta. El saldo actual arranca igual al inicial.
func (r *FinancialAccountRepo) Create(account *entity.FinancialAccount) error {
	query := `
		INSERT INTO financial_accounts (id, name, initial_balance, current_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.Name, account.InitialBalance, account.CurrentBalance,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create financial account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por su ID.
func (r *FinancialAccountRepo) GetByID(id string) (*entity.FinancialAccount, error) {
	query := `SELECT ` + financialAccountColumns + ` FROM financial_accounts WHERE id = $1`
	var a entity.FinancialAccount
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.Name, &a.InitialBalance, &a.CurrentBalance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get financial account: %w", err)
	}
	return &a, nil
}

// List lista las cuentas por nombre.
func (r *FinancialAccountRepo) List() ([]*entity.FinancialAccount, error) {
	query := `SELECT ` + financialAccountColumns + ` FROM financial_accounts ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list financial accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entity.FinancialAccount
	for rows.Next() {
		var a entity.FinancialAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.InitialBalance, &a.CurrentBalance, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan financial account: %w", err)
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

// AddToBalance suma delta al saldo en una sentencia atómica (nunca
// leer-calcular-escribir).
func (r *FinancialAccountRepo) AddToBalance(id string, delta decimal.Decimal) error {
	query := `UPDATE financial_accounts SET current_balance = current_balance + $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, delta)
	if err != nil {
		return fmt.Errorf("add to account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
