package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrNothingToRestore indica que la venta ya no tiene historial de consumo
	// reversible: un retorno adicional contra ella no puede restaurar nada.
	ErrNothingToRestore = errors.New("la venta no tiene consumo pendiente de restaurar")
)
