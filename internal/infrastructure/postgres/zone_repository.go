package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ZoneRepository = (*ZoneRepo)(nil)

const zoneColumns = `id, label, total_capacity, used_capacity, available_capacity, created_at, updated_at`

// ZoneRepo implementación del puerto ZoneRepository sobre PostgreSQL (usable con pool o tx).
type ZoneRepo struct {
	q Querier
}

// NewZoneRepository construye el adaptador de persistencia para zonas. Pasar pool o tx (Querier).
func NewZoneRepository(q Querier) *ZoneRepo {
	return &ZoneRepo{q: q}
}

// FindAll lista todas las zonas en orden de creación.
func (r *ZoneRepo) FindAll(ctx context.Context) ([]*entity.Zone, error) {
	return r.list(ctx, `SELECT `+zoneColumns+` FROM zones ORDER BY created_at, label`)
}

// FindAllForUpdate igual que FindAll pero bloquea las filas hasta el fin de la tx.
// Fuera de una transacción el bloqueo dura sólo la sentencia.
func (r *ZoneRepo) FindAllForUpdate(ctx context.Context) ([]*entity.Zone, error) {
	return r.list(ctx, `SELECT `+zoneColumns+` FROM zones ORDER BY created_at, label FOR UPDATE`)
}

func (r *ZoneRepo) list(ctx context.Context, query string) ([]*entity.Zone, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Zone
	for rows.Next() {
		var z entity.Zone
		if err := rows.Scan(&z.ID, &z.Label, &z.TotalCapacity, &z.UsedCapacity, &z.AvailableCapacity, &z.CreatedAt, &z.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		list = append(list, &z)
	}
	return list, rows.Err()
}

// GetByID obtiene una zona por ID.
func (r *ZoneRepo) GetByID(ctx context.Context, id string) (*entity.Zone, error) {
	var z entity.Zone
	err := r.q.QueryRow(ctx, `SELECT `+zoneColumns+` FROM zones WHERE id = $1`, id).Scan(
		&z.ID, &z.Label, &z.TotalCapacity, &z.UsedCapacity, &z.AvailableCapacity, &z.CreatedAt, &z.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get zone: %w", err)
	}
	return &z, nil
}

// Create persiste una zona nueva. Etiqueta repetida (sin mayúsculas): ErrConflict.
func (r *ZoneRepo) Create(ctx context.Context, zone *entity.Zone) error {
	query := `
		INSERT INTO zones (` + zoneColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		zone.ID, zone.Label, zone.TotalCapacity, zone.UsedCapacity, zone.AvailableCapacity,
		zone.CreatedAt, zone.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert zone %q: %w", zone.Label, domain.ErrConflict)
		}
		return fmt.Errorf("insert zone: %w", err)
	}
	return nil
}

const updateZoneSQL = `
	UPDATE zones SET total_capacity = $2, used_capacity = $3, available_capacity = $4, updated_at = $5
	WHERE id = $1`

// Update sobrescribe las tres capacidades de la zona.
func (r *ZoneRepo) Update(ctx context.Context, zone *entity.Zone) error {
	_, err := r.q.Exec(ctx, updateZoneSQL,
		zone.ID, zone.TotalCapacity, zone.UsedCapacity, zone.AvailableCapacity, zone.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update zone: %w", err)
	}
	return nil
}

// SaveAll persiste las capacidades de todas las zonas en un solo viaje (pgx.Batch).
func (r *ZoneRepo) SaveAll(ctx context.Context, zones []*entity.Zone) error {
	if len(zones) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, z := range zones {
		batch.Queue(updateZoneSQL, z.ID, z.TotalCapacity, z.UsedCapacity, z.AvailableCapacity, z.UpdatedAt)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range zones {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("save zones: %w", err)
		}
	}
	return nil
}

// Delete elimina una zona por ID.
func (r *ZoneRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM zones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete zone: %w", err)
	}
	return nil
}
