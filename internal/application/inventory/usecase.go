package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/application/space"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	domainspace "github.com/jhoicas/Almacen-api/internal/domain/space"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

var tracer = otel.Tracer("github.com/jhoicas/Almacen-api/internal/application/inventory")

// InventoryUseCase altas, cambios y bajas de ítems de inventario. Cada mutación reconcilia la
// ocupación de las zonas en la misma transacción, de modo que zonas e inventario nunca se ven
// desalineados.
type InventoryUseCase struct {
	txRunner      ports.TxRunner
	inventoryRepo repository.InventoryRepository
	locker        ports.Locker
	log           *logger.Logger
	now           func() time.Time
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(
	txRunner ports.TxRunner,
	inventoryRepo repository.InventoryRepository,
	locker ports.Locker,
	log *logger.Logger,
) *InventoryUseCase {
	return &InventoryUseCase{
		txRunner:      txRunner,
		inventoryRepo: inventoryRepo,
		locker:        locker,
		log:           log.Component("inventory"),
		now:           time.Now,
	}
}

// Add crea un ítem y reconcilia las zonas.
func (uc *InventoryUseCase) Add(ctx context.Context, in dto.InventoryItemRequest) (*dto.InventoryItemResponse, error) {
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	item := &entity.InventoryItem{
		ID:          uuid.New().String(),
		Name:        in.ItemName,
		CategoryID:  in.CategoryID,
		Quantity:    in.Quantity,
		Location:    in.Location,
		LastUpdated: now,
	}
	err := uc.mutate(ctx, "add", item.ID, func(ctx context.Context, inventoryRepo repository.InventoryRepository) error {
		return inventoryRepo.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Ctx(ctx).Info().Str("item_id", item.ID).Str("location", item.Location).Int("quantity", item.Quantity).Msg("ítem de inventario creado")
	return toInventoryResponse(item), nil
}

// Update reemplaza nombre, categoría, cantidad y ubicación de un ítem existente y reconcilia.
func (uc *InventoryUseCase) Update(ctx context.Context, in dto.InventoryItemRequest) (*dto.InventoryItemResponse, error) {
	if strings.TrimSpace(in.ItemID) == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.InventoryItem
	err := uc.mutate(ctx, "update", in.ItemID, func(ctx context.Context, inventoryRepo repository.InventoryRepository) error {
		item, err := inventoryRepo.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		item.Name = in.ItemName
		item.CategoryID = in.CategoryID
		item.Quantity = in.Quantity
		item.Location = in.Location
		item.LastUpdated = uc.now()
		updated = item
		return inventoryRepo.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return toInventoryResponse(updated), nil
}

// Remove elimina un ítem y reconcilia. Los envíos que lo referencian se conservan y su
// seguimiento mostrará el ítem como no resuelto.
func (uc *InventoryUseCase) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidInput
	}
	return uc.mutate(ctx, "remove", id, func(ctx context.Context, inventoryRepo repository.InventoryRepository) error {
		return inventoryRepo.Delete(ctx, id)
	})
}

// List devuelve todo el inventario.
func (uc *InventoryUseCase) List(ctx context.Context) ([]dto.InventoryItemResponse, error) {
	items, err := uc.inventoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *toInventoryResponse(it))
	}
	return out, nil
}

// GetByID obtiene un ítem por ID (nil si no existe).
func (uc *InventoryUseCase) GetByID(ctx context.Context, id string) (*dto.InventoryItemResponse, error) {
	item, err := uc.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toInventoryResponse(item), nil
}

// mutate toma el bloqueo de zonas, aplica fn y reconcilia en la misma transacción.
func (uc *InventoryUseCase) mutate(ctx context.Context, op, itemID string, fn func(ctx context.Context, inventoryRepo repository.InventoryRepository) error) error {
	ctx, span := tracer.Start(ctx, "inventory."+op)
	defer span.End()
	span.SetAttributes(attribute.String("inventory.item_id", itemID))

	unlock, err := uc.locker.Lock(ctx, space.LockKey)
	if err != nil {
		return fmt.Errorf("bloqueo de zonas: %w", err)
	}
	defer unlock()

	err = uc.txRunner.Run(ctx, func(
		zoneRepo repository.ZoneRepository,
		inventoryRepo repository.InventoryRepository,
		_ repository.ShipmentRepository,
	) error {
		if err := fn(ctx, inventoryRepo); err != nil {
			return err
		}
		_, err := space.ReconcileStored(ctx, zoneRepo, inventoryRepo, domainspace.ClampAtZero, uc.now())
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func toInventoryResponse(it *entity.InventoryItem) *dto.InventoryItemResponse {
	if it == nil {
		return nil
	}
	return &dto.InventoryItemResponse{
		ItemID:      it.ID,
		ItemName:    it.Name,
		CategoryID:  it.CategoryID,
		Quantity:    it.Quantity,
		Location:    it.Location,
		LastUpdated: it.LastUpdated,
	}
}
