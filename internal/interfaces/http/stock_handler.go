package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/maximiza-sistemas/distrigas-api/internal/application/dto"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/stock"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del libro de stock (protegido).
type StockHandler struct {
	uc *stock.LedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.LedgerUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, location_id, kind, bottle_state, quantity"
// @Success      201   {object}  dto.StockRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	record, err := h.uc.RegisterMovement(c.Context(), stock.MovementInput{
		ProductID:     in.ProductID,
		LocationID:    in.LocationID,
		Kind:          in.Kind,
		BottleState:   in.BottleState,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		ActorID:       GetUserID(c),
		AllowNegative: in.AllowNegative,
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockRecordResponse(record))
}

// Transfer godoc
// @Summary      Trasladar stock entre sedes
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "product_id, from_location_id, to_location_id, bottle_state, quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.Transfer(c.Context(), stock.TransferInput{
		ProductID:      in.ProductID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		BottleState:    in.BottleState,
		Quantity:       in.Quantity,
		Reason:         in.Reason,
		ActorID:        GetUserID(c),
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "traslado registrado"})
}

// Reverse godoc
// @Summary      Compensar un movimiento
// @Description  Agrega un movimiento compensatorio; el original queda como rastro de auditoría.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento a compensar"
// @Success      201  {object}  dto.StockMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id}/reverse [post]
func (h *StockHandler) Reverse(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	reversal, err := h.uc.Reverse(c.Context(), id, GetUserID(c))
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockMovementResponse(reversal))
}

// GetRecord godoc
// @Summary      Existencias de un producto en una sede
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productID   path  string  true  "ID del producto"
// @Param        locationID  path  string  true  "ID de la sede"
// @Success      200  {object}  dto.StockRecordResponse
// @Router       /api/stock/{productID}/{locationID} [get]
func (h *StockHandler) GetRecord(c *fiber.Ctx) error {
	record, err := h.uc.CurrentQuantity(c.Params("productID"), c.Params("locationID"))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(toStockRecordResponse(record))
}

// ListMovements godoc
// @Summary      Historial de movimientos de una llave
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productID   path   string  true   "ID del producto"
// @Param        locationID  path   string  true   "ID de la sede"
// @Param        from        query  string  false  "Desde (RFC3339)"
// @Param        to          query  string  false  "Hasta (RFC3339)"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock/{productID}/{locationID}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	movements, err := h.uc.ListMovements(c.Params("productID"), c.Params("locationID"), from, to, limit, offset)
	if err != nil {
		return stockError(c, err)
	}
	out := make([]*dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toStockMovementResponse(m))
	}
	return c.JSON(out)
}

// ListByLocation godoc
// @Summary      Existencias de una sede
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        locationID  path  string  true  "ID de la sede"
// @Success      200  {array}  dto.StockRecordResponse
// @Router       /api/stock/locations/{locationID} [get]
func (h *StockHandler) ListByLocation(c *fiber.Ctx) error {
	records, err := h.uc.ListLocationStock(c.Params("locationID"))
	if err != nil {
		return stockError(c, err)
	}
	out := make([]*dto.StockRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toStockRecordResponse(r))
	}
	return c.JSON(out)
}

// SetLevels godoc
// @Summary      Fijar niveles de reposición
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productID   path  string  true  "ID del producto"
// @Param        locationID  path  string  true  "ID de la sede"
// @Param        body        body  dto.SetLevelsRequest  true  "min_level, max_level"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/{productID}/{locationID}/levels [put]
func (h *StockHandler) SetLevels(c *fiber.Ctx) error {
	var in dto.SetLevelsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetLevels(c.Params("productID"), c.Params("locationID"), in.MinLevel, in.MaxLevel); err != nil {
		return stockError(c, err)
	}
	return c.JSON(fiber.Map{"message": "niveles actualizados"})
}

// DeleteRecord godoc
// @Summary      Eliminar un registro de stock
// @Description  Solo permitido cuando todas las cantidades están en cero.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productID   path  string  true  "ID del producto"
// @Param        locationID  path  string  true  "ID de la sede"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/{productID}/{locationID} [delete]
func (h *StockHandler) DeleteRecord(c *fiber.Ctx) error {
	if err := h.uc.RemoveRecord(c.Context(), c.Params("productID"), c.Params("locationID")); err != nil {
		return stockError(c, err)
	}
	return c.JSON(fiber.Map{"message": "registro eliminado"})
}

func stockError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case domain.ErrRecordNotEmpty:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RECORD_NOT_EMPTY", Message: "el registro tiene cantidades distintas de cero"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toStockRecordResponse(r *entity.StockRecord) *dto.StockRecordResponse {
	return &dto.StockRecordResponse{
		ProductID:      r.ProductID,
		LocationID:     r.LocationID,
		FullQty:        r.FullQty,
		EmptyQty:       r.EmptyQty,
		MaintenanceQty: r.MaintenanceQty,
		MinLevel:       r.MinLevel,
		MaxLevel:       r.MaxLevel,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toStockMovementResponse(m *entity.StockMovement) *dto.StockMovementResponse {
	return &dto.StockMovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		LocationID:    m.LocationID,
		OrderID:       m.OrderID,
		Kind:          m.Kind,
		BottleState:   m.BottleState,
		Quantity:      m.Quantity,
		Reason:        m.Reason,
		ReversalOf:    m.ReversalOf,
		TransferGroup: m.TransferGroup,
		CreatedAt:     m.CreatedAt,
	}
}
