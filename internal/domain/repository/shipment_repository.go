package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ShipmentWithInventory resultado de leer un envío junto a su ítem de inventario (LEFT JOIN).
// InventoryItemID es nil cuando la referencia no resuelve a un ítem existente.
type ShipmentWithInventory struct {
	Shipment        entity.Shipment
	InventoryItemID *string
}

// ShipmentRepository define el puerto de persistencia para Shipment (DIP).
type ShipmentRepository interface {
	ListAll(ctx context.Context) ([]*entity.Shipment, error)
	ListByInventory(ctx context.Context, inventoryID string) ([]*entity.Shipment, error)
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	GetWithInventory(ctx context.Context, id string) (*ShipmentWithInventory, error)
	ListWithInventory(ctx context.Context) ([]ShipmentWithInventory, error)
	Create(ctx context.Context, shipment *entity.Shipment) error
	Update(ctx context.Context, shipment *entity.Shipment) error
	Delete(ctx context.Context, id string) error
}
