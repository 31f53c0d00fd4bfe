package memory

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación en memoria de InventoryRepository.
type InventoryRepo struct {
	store *Store
	inTx  bool
}

func (r *InventoryRepo) ListAll(_ context.Context) ([]*entity.InventoryItem, error) {
	defer r.store.lock(r.inTx)()
	return sortedItems(r.store.state.items), nil
}

func (r *InventoryRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	defer r.store.lock(r.inTx)()
	it, ok := r.store.state.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *InventoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *InventoryRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	defer r.store.lock(r.inTx)()
	r.store.state.items[item.ID] = *item
	return nil
}

func (r *InventoryRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	defer r.store.lock(r.inTx)()
	if _, ok := r.store.state.items[item.ID]; !ok {
		return nil
	}
	r.store.state.items[item.ID] = *item
	return nil
}

// Delete no toca los envíos que referencian el ítem.
func (r *InventoryRepo) Delete(_ context.Context, id string) error {
	defer r.store.lock(r.inTx)()
	delete(r.store.state.items, id)
	return nil
}
