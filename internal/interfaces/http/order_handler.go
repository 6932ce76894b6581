package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maximiza-sistemas/distrigas-api/internal/application/dto"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/orders"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

// OrderHandler maneja las peticiones HTTP del ciclo de vida de pedidos (protegido).
type OrderHandler struct {
	uc *orders.LifecycleUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.LifecycleUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Crea el pedido con sus líneas y descuenta el stock de la sede en la misma transacción.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "client_id, location_id, items"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ClientID == "" || in.LocationID == "" || len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "client_id, location_id e items son requeridos"})
	}
	order, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// GetByID godoc
// @Summary      Obtener pedido por ID
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := h.uc.List(c.Query("status"), limit, offset)
	if err != nil {
		return orderError(c, err)
	}
	out := make([]*dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResponse(o))
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Cambiar estado del pedido
// @Description  PENDING→IN_TRANSIT→DELIVERED o cancelación desde PENDING. Entregar registra el ingreso; cancelar revierte stock, abonos y transacción.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.TransitionOrderRequest  true  "status, account_id (opcional al entregar)"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) Transition(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.TransitionOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Transition(c.Context(), id, in.Status, in.AccountID, GetUserID(c))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

func orderError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrIllegalTransition:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ILLEGAL_TRANSITION", Message: "transición de estado no permitida"})
	case domain.ErrDeleteNotAllowed:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CANCEL_NOT_ALLOWED", Message: "solo se cancelan pedidos pendientes"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente en la sede"})
	case domain.ErrConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el pedido está cancelado"})
	case domain.ErrPaymentExceedsPending:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PAYMENT_EXCEEDS_PENDING", Message: "el abono supera el saldo pendiente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:            o.ID,
		ClientID:      o.ClientID,
		LocationID:    o.LocationID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		TotalValue:    o.TotalValue,
		Discount:      o.Discount,
		PaidAmount:    o.PaidAmount,
		PendingAmount: o.PendingAmount(),
		DueDate:       o.DueDate,
		CreatedAt:     o.CreatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
			CostPrice:  it.CostPrice,
		})
	}
	return out
}
