package shipment

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
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/domain/shipment"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

var tracer = otel.Tracer("github.com/jhoicas/Almacen-api/internal/application/shipment")

// LockKey clave de exclusión de la recepción por ítem de inventario.
func LockKey(inventoryID string) string {
	return "shipment:item:" + inventoryID
}

// ShipmentUseCase ciclo de vida de envíos: recepción con unicidad del estado "Received" por ítem,
// despacho, seguimiento y listado con resolución defensiva del ítem asociado.
type ShipmentUseCase struct {
	txRunner     ports.TxRunner
	shipmentRepo repository.ShipmentRepository
	locker       ports.Locker
	events       ports.EventPublisher
	log          *logger.Logger
	now          func() time.Time
}

// NewShipmentUseCase construye el caso de uso.
func NewShipmentUseCase(
	txRunner ports.TxRunner,
	shipmentRepo repository.ShipmentRepository,
	locker ports.Locker,
	events ports.EventPublisher,
	log *logger.Logger,
) *ShipmentUseCase {
	return &ShipmentUseCase{
		txRunner:     txRunner,
		shipmentRepo: shipmentRepo,
		locker:       locker,
		events:       events,
		log:          log.Component("shipment"),
		now:          time.Now,
	}
}

// Receive registra un envío nuevo. El ítem debe existir (ErrNotFound) y no puede tener ya otro
// envío en estado "Received" (ErrDuplicateActiveShipment), sea cual sea el estado del nuevo.
// Fecha de entrega ausente o inválida: se usa la hora actual.
func (uc *ShipmentUseCase) Receive(ctx context.Context, in dto.ShipmentRequest) (*dto.ShipmentResponse, error) {
	itemID := strings.TrimSpace(in.ItemID)
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}

	ctx, span := tracer.Start(ctx, "shipment.receive")
	defer span.End()
	span.SetAttributes(attribute.String("inventory.item_id", itemID), attribute.String("shipment.status", in.Status))

	unlock, err := uc.locker.Lock(ctx, LockKey(itemID))
	if err != nil {
		return nil, fmt.Errorf("bloqueo de envío: %w", err)
	}
	defer unlock()

	now := uc.now()
	deliveryDate, substituted := shipment.ResolveDeliveryDate(in.ExpectedDeliveryDate, time.Time{}, now, shipment.FallbackNow)
	if substituted {
		uc.log.Ctx(ctx).Warn().Str("item_id", itemID).Str("raw", in.ExpectedDeliveryDate).Msg("fecha de entrega ausente o inválida, se usa la hora actual")
	}

	var created *entity.Shipment
	err = uc.txRunner.Run(ctx, func(
		_ repository.ZoneRepository,
		inventoryRepo repository.InventoryRepository,
		shipmentRepo repository.ShipmentRepository,
	) error {
		// Bloquea la fila del ítem (SELECT FOR UPDATE) durante la verificación de duplicados
		item, err := inventoryRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		existing, err := shipmentRepo.ListByInventory(ctx, itemID)
		if err != nil {
			return err
		}
		if shipment.HasActiveReceived(existing, itemID) {
			return domain.ErrDuplicateActiveShipment
		}
		s := &entity.Shipment{
			ID:                   uuid.New().String(),
			InventoryID:          item.ID,
			Origin:               in.Origin,
			Destination:          in.Destination,
			Status:               in.Status,
			ExpectedDeliveryDate: deliveryDate,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := shipmentRepo.Create(ctx, s); err != nil {
			return err
		}
		created = s
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	uc.log.Ctx(ctx).Info().Str("shipment_id", created.ID).Str("item_id", itemID).Msg("envío recibido")
	resp := toShipmentResponse(created)
	ports.Publish(ctx, uc.events, uc.log, ports.Event{Type: ports.EventShipmentReceived, Key: itemID, Payload: resp})
	return resp, nil
}

// Dispatch actualiza origen, destino y estado de un envío existente. La fecha sólo cambia si
// viene y es válida; si no, se conserva la actual.
// No vuelve a verificar la unicidad de "Received": un despacho puede pasar a ese estado aunque
// otro envío del mismo ítem ya lo tenga.
func (uc *ShipmentUseCase) Dispatch(ctx context.Context, id string, in dto.ShipmentRequest) (*dto.ShipmentResponse, error) {
	ctx, span := tracer.Start(ctx, "shipment.dispatch")
	defer span.End()
	span.SetAttributes(attribute.String("shipment.id", id), attribute.String("shipment.status", in.Status))

	var updated *entity.Shipment
	err := uc.txRunner.Run(ctx, func(
		_ repository.ZoneRepository,
		_ repository.InventoryRepository,
		shipmentRepo repository.ShipmentRepository,
	) error {
		s, err := shipmentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		s.Origin = in.Origin
		s.Destination = in.Destination
		s.Status = in.Status
		var substituted bool
		s.ExpectedDeliveryDate, substituted = shipment.ResolveDeliveryDate(in.ExpectedDeliveryDate, s.ExpectedDeliveryDate, uc.now(), shipment.FallbackKeep)
		if substituted && strings.TrimSpace(in.ExpectedDeliveryDate) != "" {
			uc.log.Ctx(ctx).Warn().Str("shipment_id", id).Str("raw", in.ExpectedDeliveryDate).Msg("fecha de entrega inválida, se conserva la actual")
		}
		s.UpdatedAt = uc.now()
		if err := shipmentRepo.Update(ctx, s); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp := toShipmentResponse(updated)
	ports.Publish(ctx, uc.events, uc.log, ports.Event{Type: ports.EventShipmentDispatched, Key: updated.InventoryID, Payload: resp})
	return resp, nil
}

// Track devuelve la vista de seguimiento (nil si el envío no existe). Si el ítem asociado no se
// puede resolver la vista se devuelve igual con ItemID nil.
func (uc *ShipmentUseCase) Track(ctx context.Context, id string) (*dto.ShipmentTrackingResponse, error) {
	row, err := uc.shipmentRepo.GetWithInventory(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	if row.InventoryItemID == nil {
		uc.log.Ctx(ctx).Warn().Str("shipment_id", id).Msg("envío sin ítem de inventario asociado")
	}
	s := row.Shipment
	return &dto.ShipmentTrackingResponse{
		ShipmentID:           s.ID,
		Origin:               s.Origin,
		Destination:          s.Destination,
		Status:               s.Status,
		ExpectedDeliveryDate: s.ExpectedDeliveryDate,
		ItemID:               row.InventoryItemID,
	}, nil
}

// List devuelve todos los envíos con el ID del ítem resuelto (nil si no resuelve).
func (uc *ShipmentUseCase) List(ctx context.Context) ([]dto.ShipmentListItem, error) {
	rows, err := uc.shipmentRepo.ListWithInventory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShipmentListItem, 0, len(rows))
	for _, row := range rows {
		s := row.Shipment
		out = append(out, dto.ShipmentListItem{
			ShipmentID:           s.ID,
			Origin:               s.Origin,
			Destination:          s.Destination,
			Status:               s.Status,
			ExpectedDeliveryDate: s.ExpectedDeliveryDate,
			ItemID:               row.InventoryItemID,
		})
	}
	return out, nil
}

// GetByID obtiene un envío por ID (nil si no existe).
func (uc *ShipmentUseCase) GetByID(ctx context.Context, id string) (*dto.ShipmentResponse, error) {
	s, err := uc.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	return toShipmentResponse(s), nil
}

// Delete elimina un envío; ErrNotFound si no existe.
func (uc *ShipmentUseCase) Delete(ctx context.Context, id string) error {
	var deleted *entity.Shipment
	err := uc.txRunner.Run(ctx, func(
		_ repository.ZoneRepository,
		_ repository.InventoryRepository,
		shipmentRepo repository.ShipmentRepository,
	) error {
		s, err := shipmentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		deleted = s
		return shipmentRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	ports.Publish(ctx, uc.events, uc.log, ports.Event{Type: ports.EventShipmentDeleted, Key: deleted.InventoryID, Payload: toShipmentResponse(deleted)})
	return nil
}

func toShipmentResponse(s *entity.Shipment) *dto.ShipmentResponse {
	if s == nil {
		return nil
	}
	return &dto.ShipmentResponse{
		ID:                   s.ID,
		ItemID:               s.InventoryID,
		Origin:               s.Origin,
		Destination:          s.Destination,
		Status:               s.Status,
		ExpectedDeliveryDate: s.ExpectedDeliveryDate,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}
