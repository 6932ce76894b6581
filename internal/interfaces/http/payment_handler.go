package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maximiza-sistemas/distrigas-api/internal/application/dto"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/payments"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

// PaymentHandler maneja las peticiones HTTP de abonos (protegido).
type PaymentHandler struct {
	uc *payments.TrackerUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payments.TrackerUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar abono de un pedido
// @Description  El abono nunca supera el saldo pendiente. Actualiza el estado de pago del pedido y propaga la liquidación al libro financiero en la misma transacción.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.RecordPaymentRequest  true  "amount, method"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/payments [post]
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	payment, err := h.uc.RecordPayment(c.Context(), orderID, in)
	if err != nil {
		return orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(payment))
}

// ListByOrder godoc
// @Summary      Listar abonos de un pedido
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {array}  dto.PaymentResponse
// @Router       /api/orders/{id}/payments [get]
func (h *PaymentHandler) ListByOrder(c *fiber.Ctx) error {
	list, err := h.uc.ListByOrder(c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	out := make([]*dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentResponse(p))
	}
	return c.JSON(out)
}

// Reverse godoc
// @Summary      Revertir un abono
// @Description  Elimina el abono, recalcula el saldo del pedido y re-propaga la liquidación al libro financiero.
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del abono"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{id} [delete]
func (h *PaymentHandler) Reverse(c *fiber.Ctx) error {
	if err := h.uc.ReversePayment(c.Context(), c.Params("id")); err != nil {
		return orderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "abono revertido"})
}

func toPaymentResponse(p *entity.OrderPayment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:          p.ID,
		OrderID:     p.OrderID,
		Amount:      p.Amount,
		Method:      p.Method,
		PaymentDate: p.PaymentDate,
		ReceiptRef:  p.ReceiptRef,
	}
}
