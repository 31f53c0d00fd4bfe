// Package memory implementa los puertos de persistencia en memoria, con transacciones por
// instantánea. Sirve para DB_DRIVER=memory (demo/local) y como doble de prueba de los casos de uso.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type memoryState struct {
	zones     map[string]entity.Zone
	items     map[string]entity.InventoryItem
	shipments map[string]entity.Shipment
}

func newMemoryState() memoryState {
	return memoryState{
		zones:     map[string]entity.Zone{},
		items:     map[string]entity.InventoryItem{},
		shipments: map[string]entity.Shipment{},
	}
}

func (s memoryState) clone() memoryState {
	cp := memoryState{
		zones:     make(map[string]entity.Zone, len(s.zones)),
		items:     make(map[string]entity.InventoryItem, len(s.items)),
		shipments: make(map[string]entity.Shipment, len(s.shipments)),
	}
	for k, v := range s.zones {
		cp.zones[k] = v
	}
	for k, v := range s.items {
		cp.items[k] = v
	}
	for k, v := range s.shipments {
		cp.shipments[k] = v
	}
	return cp
}

// Store estado compartido de los repositorios en memoria. Run serializa las transacciones
// (equivale a un bloqueo de tabla) y restaura la instantánea si fn falla.
type Store struct {
	mu    sync.Mutex
	state memoryState
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newMemoryState()}
}

// Zones repositorio de zonas fuera de transacción.
func (s *Store) Zones() *ZoneRepo { return &ZoneRepo{store: s} }

// Inventory repositorio de inventario fuera de transacción.
func (s *Store) Inventory() *InventoryRepo { return &InventoryRepo{store: s} }

// Shipments repositorio de envíos fuera de transacción.
func (s *Store) Shipments() *ShipmentRepo { return &ShipmentRepo{store: s} }

// Run ejecuta fn con repositorios atados a la transacción. Error en fn: rollback.
func (s *Store) Run(ctx context.Context, fn func(
	zoneRepo repository.ZoneRepository,
	inventoryRepo repository.InventoryRepository,
	shipmentRepo repository.ShipmentRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	err := fn(
		&ZoneRepo{store: s, inTx: true},
		&InventoryRepo{store: s, inTx: true},
		&ShipmentRepo{store: s, inTx: true},
	)
	if err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// lock toma el mutex sólo fuera de transacción (dentro, Run ya lo tiene).
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func sortedZones(m map[string]entity.Zone) []*entity.Zone {
	out := make([]*entity.Zone, 0, len(m))
	for _, z := range m {
		z := z
		out = append(out, &z)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func sortedItems(m map[string]entity.InventoryItem) []*entity.InventoryItem {
	out := make([]*entity.InventoryItem, 0, len(m))
	for _, it := range m {
		it := it
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedShipments(m map[string]entity.Shipment) []*entity.Shipment {
	out := make([]*entity.Shipment, 0, len(m))
	for _, s := range m {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
