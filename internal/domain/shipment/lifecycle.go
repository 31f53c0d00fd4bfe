// Package shipment contiene las reglas puras del ciclo de vida de envíos:
// unicidad del envío "Received" por ítem y la política de fechas de entrega.
package shipment

import (
	"strings"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// DeliveryDateLayout formato textual aceptado para la fecha esperada de entrega (hora local).
const DeliveryDateLayout = "2006-01-02T15:04:05"

// FallbackPolicy define qué fecha se usa cuando la entrada falta o no se puede interpretar.
type FallbackPolicy int

const (
	// FallbackNow sustituye por la hora actual (recepción).
	FallbackNow FallbackPolicy = iota
	// FallbackKeep conserva la fecha vigente del envío (despacho).
	FallbackKeep
)

// IsActive indica si el estado es "Received" sin distinguir mayúsculas. Los espacios cuentan.
func IsActive(status string) bool {
	return strings.EqualFold(status, entity.ShipmentStatusReceived)
}

// HasActiveReceived indica si algún envío del ítem ya está en estado "Received".
func HasActiveReceived(shipments []*entity.Shipment, inventoryID string) bool {
	for _, s := range shipments {
		if s != nil && s.InventoryID == inventoryID && IsActive(s.Status) {
			return true
		}
	}
	return false
}

// ParseDeliveryDate interpreta raw con DeliveryDateLayout. Se toleran sufijos tras los segundos
// (milisegundos, zona) y se descartan.
func ParseDeliveryDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(DeliveryDateLayout, raw, time.Local); err == nil {
		return t, true
	}
	if len(raw) > len(DeliveryDateLayout) {
		if t, err := time.ParseInLocation(DeliveryDateLayout, raw[:len(DeliveryDateLayout)], time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ResolveDeliveryDate devuelve la fecha a guardar y si hubo sustitución por la política.
func ResolveDeliveryDate(raw string, current, now time.Time, policy FallbackPolicy) (time.Time, bool) {
	if t, ok := ParseDeliveryDate(raw); ok {
		return t, false
	}
	if policy == FallbackKeep {
		return current, true
	}
	return now, true
}
