package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

const shipmentColumns = `s.id, s.inventory_id, s.origin, s.destination, s.status, s.expected_delivery_date, s.created_at, s.updated_at`

// ShipmentRepo implementación del puerto ShipmentRepository sobre PostgreSQL (usable con pool o tx).
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

func scanShipment(row pgx.Row, s *entity.Shipment, extra ...any) error {
	dest := []any{&s.ID, &s.InventoryID, &s.Origin, &s.Destination, &s.Status, &s.ExpectedDeliveryDate, &s.CreatedAt, &s.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}

// ListAll lista todos los envíos por fecha de creación.
func (r *ShipmentRepo) ListAll(ctx context.Context) ([]*entity.Shipment, error) {
	return r.list(ctx, `SELECT `+shipmentColumns+` FROM shipments s ORDER BY s.created_at, s.id`)
}

// ListByInventory lista los envíos de un ítem.
func (r *ShipmentRepo) ListByInventory(ctx context.Context, inventoryID string) ([]*entity.Shipment, error) {
	return r.list(ctx, `SELECT `+shipmentColumns+` FROM shipments s WHERE s.inventory_id = $1 ORDER BY s.created_at, s.id`, inventoryID)
}

func (r *ShipmentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Shipment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shipment
	for rows.Next() {
		var s entity.Shipment
		if err := scanShipment(rows, &s); err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// GetByID obtiene un envío por ID.
func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	var s entity.Shipment
	err := scanShipment(r.q.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments s WHERE s.id = $1`, id), &s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return &s, nil
}

// GetWithInventory obtiene el envío con el ID del ítem resuelto por LEFT JOIN (NULL si no existe).
func (r *ShipmentRepo) GetWithInventory(ctx context.Context, id string) (*repository.ShipmentWithInventory, error) {
	query := `
		SELECT ` + shipmentColumns + `, i.id
		FROM shipments s
		LEFT JOIN inventory_items i ON i.id = s.inventory_id
		WHERE s.id = $1`
	var row repository.ShipmentWithInventory
	err := scanShipment(r.q.QueryRow(ctx, query, id), &row.Shipment, &row.InventoryItemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment with inventory: %w", err)
	}
	return &row, nil
}

// ListWithInventory lista los envíos con el ID del ítem resuelto (NULL si no existe).
func (r *ShipmentRepo) ListWithInventory(ctx context.Context) ([]repository.ShipmentWithInventory, error) {
	query := `
		SELECT ` + shipmentColumns + `, i.id
		FROM shipments s
		LEFT JOIN inventory_items i ON i.id = s.inventory_id
		ORDER BY s.created_at, s.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list shipments with inventory: %w", err)
	}
	defer rows.Close()
	var list []repository.ShipmentWithInventory
	for rows.Next() {
		var row repository.ShipmentWithInventory
		if err := scanShipment(rows, &row.Shipment, &row.InventoryItemID); err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// Create persiste un envío nuevo.
func (r *ShipmentRepo) Create(ctx context.Context, s *entity.Shipment) error {
	query := `
		INSERT INTO shipments (id, inventory_id, origin, destination, status, expected_delivery_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.InventoryID, s.Origin, s.Destination, s.Status, s.ExpectedDeliveryDate, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

// Update sobrescribe origen, destino, estado y fecha esperada.
func (r *ShipmentRepo) Update(ctx context.Context, s *entity.Shipment) error {
	query := `
		UPDATE shipments SET origin = $2, destination = $3, status = $4, expected_delivery_date = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, s.ID, s.Origin, s.Destination, s.Status, s.ExpectedDeliveryDate, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update shipment: %w", err)
	}
	return nil
}

// Delete elimina un envío por ID.
func (r *ShipmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM shipments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shipment: %w", err)
	}
	return nil
}
