package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maximiza-sistemas/distrigas-api/internal/application/dto"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/finance"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/usecase"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

// FinanceHandler maneja las peticiones HTTP del libro financiero (protegido).
type FinanceHandler struct {
	uc        *finance.LedgerUseCase
	accountUC *usecase.AccountUseCase
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(uc *finance.LedgerUseCase, accountUC *usecase.AccountUseCase) *FinanceHandler {
	return &FinanceHandler{uc: uc, accountUC: accountUC}
}

// PostTransaction godoc
// @Summary      Registrar transacción manual
// @Description  REVENUE acredita, EXPENSE debita, TRANSFER mueve entre cuentas. Si nace SETTLED el saldo se afecta en la misma transacción de BD.
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostTransactionRequest  true  "kind, account_id, amount"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/finance/transactions [post]
func (h *FinanceHandler) PostTransaction(c *fiber.Ctx) error {
	var in dto.PostTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.uc.Post(c.Context(), finance.PostInput{
		Kind:                 in.Kind,
		AccountID:            in.AccountID,
		DestinationAccountID: in.DestinationAccountID,
		Amount:               in.Amount,
		Status:               in.Status,
		Description:          in.Description,
	})
	if err != nil {
		return financeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// GetTransaction godoc
// @Summary      Obtener transacción por ID
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/finance/transactions/{id} [get]
func (h *FinanceHandler) GetTransaction(c *fiber.Ctx) error {
	tx, err := h.uc.GetTransaction(c.Params("id"))
	if err != nil {
		return financeError(c, err)
	}
	return c.JSON(toTransactionResponse(tx))
}

// UpdateStatus godoc
// @Summary      Cambiar estado de una transacción
// @Description  Idempotente: repetir el mismo estado objetivo no duplica el efecto sobre el saldo.
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la transacción"
// @Param        body  body  dto.UpdateTransactionStatusRequest  true  "status: PENDING o SETTLED"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/finance/transactions/{id}/status [put]
func (h *FinanceHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateTransactionStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateStatus(c.Context(), c.Params("id"), in.Status); err != nil {
		return financeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "estado actualizado"})
}

// Summary godoc
// @Summary      Resumen financiero
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (RFC3339)"
// @Param        to    query  string  false  "Hasta (RFC3339)"
// @Success      200   {object}  dto.FinancialSummaryResponse
// @Router       /api/finance/summary [get]
func (h *FinanceHandler) Summary(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}
	summary, err := h.uc.Summary(from, to)
	if err != nil {
		return financeError(c, err)
	}
	return c.JSON(dto.FinancialSummaryResponse{
		Revenue: summary.Revenue,
		Expense: summary.Expense,
		Pending: summary.Pending,
		Overdue: summary.Overdue,
	})
}

// CreateAccount godoc
// @Summary      Crear cuenta financiera
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAccountRequest  true  "name, initial_balance"
// @Success      201   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/finance/accounts [post]
func (h *FinanceHandler) CreateAccount(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.accountUC.Create(in)
	if err != nil {
		return financeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAccounts godoc
// @Summary      Listar cuentas financieras
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AccountResponse
// @Router       /api/finance/accounts [get]
func (h *FinanceHandler) ListAccounts(c *fiber.Ctx) error {
	out, err := h.accountUC.List()
	if err != nil {
		return financeError(c, err)
	}
	return c.JSON(out)
}

// GetAccount godoc
// @Summary      Obtener cuenta por ID
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.AccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/finance/accounts/{id} [get]
func (h *FinanceHandler) GetAccount(c *fiber.Ctx) error {
	out, err := h.accountUC.GetByID(c.Params("id"))
	if err != nil {
		return financeError(c, err)
	}
	return c.JSON(out)
}

func financeError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrDuplicate:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toTransactionResponse(t *entity.FinancialTransaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:                   t.ID,
		Kind:                 t.Kind,
		AccountID:            t.AccountID,
		DestinationAccountID: t.DestinationAccountID,
		OrderID:              t.OrderID,
		Amount:               t.Amount,
		Status:               t.Status,
		SettlementDate:       t.SettlementDate,
		Description:          t.Description,
		CreatedAt:            t.CreatedAt,
	}
}
