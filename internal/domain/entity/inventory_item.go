package entity

import "time"

// InventoryItem representa un ítem de inventario y su ubicación (zona) en el almacén.
// Location vacío significa "sin zona": no cuenta para la ocupación.
type InventoryItem struct {
	ID          string
	Name        string
	CategoryID  string // vacío si no tiene categoría
	Quantity    int
	Location    string
	LastUpdated time.Time
}
