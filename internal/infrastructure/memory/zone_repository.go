package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/domain/space"
)

var _ repository.ZoneRepository = (*ZoneRepo)(nil)

// ZoneRepo implementación en memoria de ZoneRepository.
type ZoneRepo struct {
	store *Store
	inTx  bool
}

func (r *ZoneRepo) FindAll(_ context.Context) ([]*entity.Zone, error) {
	defer r.store.lock(r.inTx)()
	return sortedZones(r.store.state.zones), nil
}

// FindAllForUpdate igual que FindAll: la exclusión la da el mutex de la transacción.
func (r *ZoneRepo) FindAllForUpdate(ctx context.Context) ([]*entity.Zone, error) {
	return r.FindAll(ctx)
}

func (r *ZoneRepo) GetByID(_ context.Context, id string) (*entity.Zone, error) {
	defer r.store.lock(r.inTx)()
	z, ok := r.store.state.zones[id]
	if !ok {
		return nil, nil
	}
	return &z, nil
}

// Create falla con ErrConflict si la etiqueta ya existe (sin distinguir mayúsculas), como el
// índice único sobre lower(label) de PostgreSQL.
func (r *ZoneRepo) Create(_ context.Context, zone *entity.Zone) error {
	defer r.store.lock(r.inTx)()
	for _, z := range r.store.state.zones {
		if space.SameLabel(z.Label, zone.Label) {
			return fmt.Errorf("insert zone %q: %w", zone.Label, domain.ErrConflict)
		}
	}
	r.store.state.zones[zone.ID] = *zone
	return nil
}

func (r *ZoneRepo) Update(_ context.Context, zone *entity.Zone) error {
	defer r.store.lock(r.inTx)()
	if _, ok := r.store.state.zones[zone.ID]; !ok {
		return nil
	}
	r.store.state.zones[zone.ID] = *zone
	return nil
}

func (r *ZoneRepo) SaveAll(_ context.Context, zones []*entity.Zone) error {
	defer r.store.lock(r.inTx)()
	for _, z := range zones {
		if _, ok := r.store.state.zones[z.ID]; ok {
			r.store.state.zones[z.ID] = *z
		}
	}
	return nil
}

func (r *ZoneRepo) Delete(_ context.Context, id string) error {
	defer r.store.lock(r.inTx)()
	delete(r.store.state.zones, id)
	return nil
}
