package memory

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación en memoria de ShipmentRepository.
type ShipmentRepo struct {
	store *Store
	inTx  bool
}

func (r *ShipmentRepo) ListAll(_ context.Context) ([]*entity.Shipment, error) {
	defer r.store.lock(r.inTx)()
	return sortedShipments(r.store.state.shipments), nil
}

func (r *ShipmentRepo) ListByInventory(_ context.Context, inventoryID string) ([]*entity.Shipment, error) {
	defer r.store.lock(r.inTx)()
	var out []*entity.Shipment
	for _, s := range sortedShipments(r.store.state.shipments) {
		if s.InventoryID == inventoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *ShipmentRepo) GetByID(_ context.Context, id string) (*entity.Shipment, error) {
	defer r.store.lock(r.inTx)()
	s, ok := r.store.state.shipments[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *ShipmentRepo) GetWithInventory(_ context.Context, id string) (*repository.ShipmentWithInventory, error) {
	defer r.store.lock(r.inTx)()
	s, ok := r.store.state.shipments[id]
	if !ok {
		return nil, nil
	}
	row := r.withInventory(s)
	return &row, nil
}

func (r *ShipmentRepo) ListWithInventory(_ context.Context) ([]repository.ShipmentWithInventory, error) {
	defer r.store.lock(r.inTx)()
	list := sortedShipments(r.store.state.shipments)
	out := make([]repository.ShipmentWithInventory, 0, len(list))
	for _, s := range list {
		out = append(out, r.withInventory(*s))
	}
	return out, nil
}

func (r *ShipmentRepo) Create(_ context.Context, shipment *entity.Shipment) error {
	defer r.store.lock(r.inTx)()
	r.store.state.shipments[shipment.ID] = *shipment
	return nil
}

func (r *ShipmentRepo) Update(_ context.Context, shipment *entity.Shipment) error {
	defer r.store.lock(r.inTx)()
	if _, ok := r.store.state.shipments[shipment.ID]; !ok {
		return nil
	}
	r.store.state.shipments[shipment.ID] = *shipment
	return nil
}

func (r *ShipmentRepo) Delete(_ context.Context, id string) error {
	defer r.store.lock(r.inTx)()
	delete(r.store.state.shipments, id)
	return nil
}

// withInventory emula el LEFT JOIN: ID del ítem sólo si todavía existe. Requiere el mutex tomado.
func (r *ShipmentRepo) withInventory(s entity.Shipment) repository.ShipmentWithInventory {
	row := repository.ShipmentWithInventory{Shipment: s}
	if it, ok := r.store.state.items[s.InventoryID]; ok {
		id := it.ID
		row.InventoryItemID = &id
	}
	return row
}
