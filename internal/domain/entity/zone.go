package entity

import "time"

// Zone representa una zona de almacenamiento con capacidad fija y un reparto usado/disponible
// derivado del inventario ubicado en ella. Label es la clave que referencia InventoryItem.Location.
type Zone struct {
	ID                string
	Label             string // único sin distinguir mayúsculas
	TotalCapacity     int
	UsedCapacity      int
	AvailableCapacity int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
