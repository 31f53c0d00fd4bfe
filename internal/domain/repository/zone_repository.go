package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ZoneRepository define el puerto de persistencia para Zone (DIP).
// Update sobrescribe todos los campos de capacidad; el cálculo incremental vive en el caso de uso.
type ZoneRepository interface {
	FindAll(ctx context.Context) ([]*entity.Zone, error)
	// FindAllForUpdate bloquea las filas de zonas hasta el fin de la transacción (SELECT FOR UPDATE).
	FindAllForUpdate(ctx context.Context) ([]*entity.Zone, error)
	GetByID(ctx context.Context, id string) (*entity.Zone, error)
	Create(ctx context.Context, zone *entity.Zone) error
	Update(ctx context.Context, zone *entity.Zone) error
	SaveAll(ctx context.Context, zones []*entity.Zone) error
	Delete(ctx context.Context, id string) error
}
