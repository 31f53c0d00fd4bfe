package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocateSpaceRequest alta o edición manual de una zona. Si la zona ya existe (sin distinguir
// mayúsculas) sus tres capacidades se sobrescriben con estos valores.
type AllocateSpaceRequest struct {
	Zone              string `json:"zone" validate:"required"`
	TotalCapacity     int    `json:"total_capacity" validate:"min=0"`
	UsedCapacity      int    `json:"used_capacity" validate:"min=0"`
	AvailableCapacity int    `json:"available_capacity" validate:"min=0"`
}

// PlaceProductRequest colocación incremental de una cantidad en una zona.
type PlaceProductRequest struct {
	Zone     string `json:"zone"`
	Quantity int    `json:"quantity"`
}

// PlaceInventoryRequest colocación incremental usando la ubicación del inventario como zona.
type PlaceInventoryRequest struct {
	Location string `json:"location"`
	Quantity int    `json:"quantity"`
}

// PlacementResponse resultado de una colocación; false = zona inexistente o sin capacidad.
type PlacementResponse struct {
	Allocated bool `json:"allocated"`
}

// SpaceResponse salida de una zona.
type SpaceResponse struct {
	ID                string          `json:"id"`
	Zone              string          `json:"zone"`
	TotalCapacity     int             `json:"total_capacity"`
	UsedCapacity      int             `json:"used_capacity"`
	AvailableCapacity int             `json:"available_capacity"`
	OccupancyPercent  decimal.Decimal `json:"occupancy_percent"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// OccupancySummary resumen de ocupación del almacén. No persiste nada.
type OccupancySummary struct {
	GeneratedAt       time.Time       `json:"generated_at"`
	Zones             []SpaceResponse `json:"zones"`
	TotalCapacity     int             `json:"total_capacity"`
	UsedCapacity      int             `json:"used_capacity"`
	OccupancyPercent  decimal.Decimal `json:"occupancy_percent"`
	ItemCount         int             `json:"item_count"`
	UnplacedQuantity  int             `json:"unplaced_quantity"`   // unidades con ubicación que no corresponde a ninguna zona
	ShipmentsByStatus map[string]int  `json:"shipments_by_status"` // clave: estado tal como se registró
}
