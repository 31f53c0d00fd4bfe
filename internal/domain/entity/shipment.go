package entity

import "time"

// ShipmentStatusReceived es el único estado con significado para el dominio:
// a lo sumo un envío por ítem puede estar "Received" (comparación sin mayúsculas).
const ShipmentStatusReceived = "Received"

// Shipment representa un envío asociado a un ítem de inventario.
// Status es texto libre; no hay tabla de transiciones.
type Shipment struct {
	ID                   string
	InventoryID          string
	Origin               string
	Destination          string
	Status               string
	ExpectedDeliveryDate time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
