package dto

import "time"

// ShipmentRequest entrada para recibir o despachar un envío.
// ExpectedDeliveryDate en formato 2006-01-02T15:04:05; ItemID se ignora al despachar.
type ShipmentRequest struct {
	ItemID               string `json:"item_id"`
	Origin               string `json:"origin"`
	Destination          string `json:"destination"`
	Status               string `json:"status"`
	ExpectedDeliveryDate string `json:"expected_delivery_date"`
}

// ShipmentResponse salida de un envío persistido.
type ShipmentResponse struct {
	ID                   string    `json:"id"`
	ItemID               string    `json:"item_id"`
	Origin               string    `json:"origin"`
	Destination          string    `json:"destination"`
	Status               string    `json:"status"`
	ExpectedDeliveryDate time.Time `json:"expected_delivery_date"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ShipmentTrackingResponse vista de seguimiento; ItemID es null si el ítem no se pudo resolver.
type ShipmentTrackingResponse struct {
	ShipmentID           string    `json:"shipment_id"`
	Origin               string    `json:"origin"`
	Destination          string    `json:"destination"`
	Status               string    `json:"status"`
	ExpectedDeliveryDate time.Time `json:"expected_delivery_date"`
	ItemID               *string   `json:"item_id"`
}

// ShipmentListItem fila del listado de envíos (misma regla de ItemID que el seguimiento).
type ShipmentListItem struct {
	ShipmentID           string    `json:"shipment_id"`
	Origin               string    `json:"origin"`
	Destination          string    `json:"destination"`
	Status               string    `json:"status"`
	ExpectedDeliveryDate time.Time `json:"expected_delivery_date"`
	ItemID               *string   `json:"item_id"`
}
