package space

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/domain/space"
)

// Summary resume la ocupación con los valores guardados de cada zona, el inventario sin zona
// y los envíos por estado. Es de sólo lectura: no crea zonas ni persiste la reconciliación.
func (uc *SpaceUseCase) Summary(ctx context.Context) (*dto.OccupancySummary, error) {
	ctx, span := tracer.Start(ctx, "space.summary")
	defer span.End()

	var (
		zones     []*entity.Zone
		items     []*entity.InventoryItem
		shipments []*entity.Shipment
	)
	err := uc.txRunner.Run(ctx, func(
		zoneRepo repository.ZoneRepository,
		inventoryRepo repository.InventoryRepository,
		shipmentRepo repository.ShipmentRepository,
	) error {
		var err error
		if zones, err = zoneRepo.FindAll(ctx); err != nil {
			return err
		}
		if items, err = inventoryRepo.ListAll(ctx); err != nil {
			return err
		}
		shipments, err = shipmentRepo.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("leer estado del almacén: %w", err)
	}

	out := &dto.OccupancySummary{
		GeneratedAt:       uc.now(),
		Zones:             toSpaceResponses(zones),
		ItemCount:         len(items),
		ShipmentsByStatus: make(map[string]int),
	}
	// Misma coincidencia exacta que la reconciliación.
	labels := make(map[string]struct{}, len(zones))
	for _, z := range zones {
		out.TotalCapacity += z.TotalCapacity
		out.UsedCapacity += z.UsedCapacity
		labels[z.Label] = struct{}{}
	}
	out.OccupancyPercent = space.OccupancyPercent(out.TotalCapacity, out.UsedCapacity)

	for loc, qty := range space.UsageByLocation(items) {
		if _, ok := labels[loc]; !ok {
			out.UnplacedQuantity += qty
		}
	}
	for _, s := range shipments {
		out.ShipmentsByStatus[s.Status]++
	}

	span.SetAttributes(attribute.Int("zones", len(zones)), attribute.Int("items", len(items)))
	return out, nil
}
