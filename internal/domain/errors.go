package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrDuplicateActiveShipment: el ítem ya tiene un envío en estado "Received".
	// Envuelve ErrConflict para que errors.Is(err, ErrConflict) también sea cierto.
	ErrDuplicateActiveShipment = fmt.Errorf("%w: el ítem ya tiene un envío recibido activo", ErrConflict)
)
