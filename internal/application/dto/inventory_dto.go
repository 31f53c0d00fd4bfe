package dto

import "time"

// InventoryItemRequest entrada para crear o actualizar un ítem de inventario.
// Location es la etiqueta de la zona donde se almacena.
type InventoryItemRequest struct {
	ItemID     string `json:"item_id"`
	ItemName   string `json:"item_name"`
	CategoryID string `json:"category_id"`
	Quantity   int    `json:"quantity" validate:"min=0"`
	Location   string `json:"location"`
}

// InventoryItemResponse salida de un ítem de inventario.
type InventoryItemResponse struct {
	ItemID      string    `json:"item_id"`
	ItemName    string    `json:"item_name"`
	CategoryID  string    `json:"category_id,omitempty"`
	Quantity    int       `json:"quantity"`
	Location    string    `json:"location"`
	LastUpdated time.Time `json:"last_updated"`
}
