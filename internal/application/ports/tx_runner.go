package ports

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; en otro caso Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		zoneRepo repository.ZoneRepository,
		inventoryRepo repository.InventoryRepository,
		shipmentRepo repository.ShipmentRepository,
	) error) error
}
