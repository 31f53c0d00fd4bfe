// Package space contiene las reglas puras de ocupación de zonas (servicio de dominio):
// reconciliación contra el inventario, zonas por defecto y colocación incremental.
package space

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ClampPolicy define cómo se calcula la capacidad disponible cuando la ocupación supera el total.
type ClampPolicy int

const (
	// ClampAtZero: disponible = max(0, total - usado). El exceso se absorbe sin error.
	ClampAtZero ClampPolicy = iota
	// ClampNone: disponible = total - usado, puede quedar negativo.
	ClampNone
)

// DefaultZoneCapacity capacidad de cada zona creada por el arranque inicial.
const DefaultZoneCapacity = 1000

// DefaultZoneLabels etiquetas de las zonas creadas cuando el almacén no tiene ninguna.
var DefaultZoneLabels = []string{"A", "B", "C", "D"}

// Available calcula la capacidad disponible según la política.
func Available(total, used int, policy ClampPolicy) int {
	avail := total - used
	if policy == ClampAtZero && avail < 0 {
		return 0
	}
	return avail
}

// UsageByLocation suma cantidades por ubicación exacta (sensible a mayúsculas).
// Los ítems sin ubicación no cuentan.
func UsageByLocation(items []*entity.InventoryItem) map[string]int {
	usage := make(map[string]int)
	for _, it := range items {
		if it == nil || strings.TrimSpace(it.Location) == "" {
			continue
		}
		usage[it.Location] += it.Quantity
	}
	return usage
}

// Reconcile recalcula usado/disponible de cada zona a partir del inventario.
// Ítems cuya ubicación no coincide con ninguna zona se ignoran.
func Reconcile(zones []*entity.Zone, items []*entity.InventoryItem, policy ClampPolicy) {
	usage := UsageByLocation(items)
	for _, z := range zones {
		used := usage[z.Label]
		z.UsedCapacity = used
		z.AvailableCapacity = Available(z.TotalCapacity, used, policy)
	}
}

// DefaultZones construye las cuatro zonas iniciales (sin ID; lo asigna quien persiste).
func DefaultZones(now time.Time) []*entity.Zone {
	zones := make([]*entity.Zone, 0, len(DefaultZoneLabels))
	for _, label := range DefaultZoneLabels {
		zones = append(zones, &entity.Zone{
			Label:             label,
			TotalCapacity:     DefaultZoneCapacity,
			UsedCapacity:      0,
			AvailableCapacity: DefaultZoneCapacity,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return zones
}

// SameLabel compara etiquetas de zona pasadas a minúsculas, la misma regla que el índice
// único lower(label) de PostgreSQL. No aplica plegado completo: "ß" y "SS" son distintas.
func SameLabel(a, b string) bool {
	lower := cases.Lower(language.Und)
	return lower.String(a) == lower.String(b)
}

// FindByLabel devuelve la primera zona cuya etiqueta coincide sin distinguir mayúsculas, o nil.
func FindByLabel(zones []*entity.Zone, label string) *entity.Zone {
	for _, z := range zones {
		if SameLabel(z.Label, label) {
			return z
		}
	}
	return nil
}

// Place coloca qty unidades en la zona si hay capacidad disponible.
// Devuelve false sin modificar la zona cuando qty es negativo o excede lo disponible.
func Place(z *entity.Zone, qty int) bool {
	if z == nil || qty < 0 || z.AvailableCapacity < qty {
		return false
	}
	z.UsedCapacity += qty
	z.AvailableCapacity -= qty
	return true
}

var hundred = decimal.NewFromInt(100)

// OccupancyPercent porcentaje usado/total con dos decimales. Puede superar 100 si la zona
// está sobreocupada; una zona sin capacidad total reporta 0.
func OccupancyPercent(total, used int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(used)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}
