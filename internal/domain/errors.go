package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Motor de pedidos y libro financiero.
	ErrIllegalTransition     = errors.New("transición de estado no permitida")
	ErrDeleteNotAllowed      = errors.New("solo se puede cancelar un pedido pendiente")
	ErrPaymentExceedsPending = errors.New("el abono excede el saldo pendiente del pedido")
	ErrRecordNotEmpty        = errors.New("el registro de stock aún tiene cantidades")
)
