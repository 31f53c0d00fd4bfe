package space

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
	"github.com/jhoicas/Almacen-api/internal/domain/space"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// LockKey clave de exclusión para toda la contabilidad de zonas (arranque, reconciliación,
// asignación y colocación). La usa también el caso de uso de inventario.
const LockKey = "space:zones"

var tracer = otel.Tracer("github.com/jhoicas/Almacen-api/internal/application/space")

// SpaceUseCase mantiene la ocupación de las zonas del almacén derivada del inventario
// y valida las operaciones que cambian su capacidad.
type SpaceUseCase struct {
	txRunner ports.TxRunner
	zoneRepo repository.ZoneRepository
	locker   ports.Locker
	events   ports.EventPublisher
	log      *logger.Logger
	policy   space.ClampPolicy
	now      func() time.Time
}

// NewSpaceUseCase construye el caso de uso. events puede ser nil (sin publicación).
func NewSpaceUseCase(
	txRunner ports.TxRunner,
	zoneRepo repository.ZoneRepository,
	locker ports.Locker,
	events ports.EventPublisher,
	log *logger.Logger,
) *SpaceUseCase {
	return &SpaceUseCase{
		txRunner: txRunner,
		zoneRepo: zoneRepo,
		locker:   locker,
		events:   events,
		log:      log.Component("space"),
		policy:   space.ClampAtZero,
		now:      time.Now,
	}
}

// ViewSpaceUsage devuelve la ocupación actual de las zonas. Si no existe ninguna crea las
// cuatro zonas por defecto (A-D, 1000 c/u) y luego reconcilia contra el inventario.
// La reconciliación se persiste siempre, aunque no haya cambios.
func (uc *SpaceUseCase) ViewSpaceUsage(ctx context.Context) ([]dto.SpaceResponse, error) {
	ctx, span := tracer.Start(ctx, "space.view_usage")
	defer span.End()

	unlock, err := uc.locker.Lock(ctx, LockKey)
	if err != nil {
		return nil, fmt.Errorf("bloqueo de zonas: %w", err)
	}
	defer unlock()

	var (
		zones     []*entity.Zone
		bootstrap bool
	)
	err = uc.txRunner.Run(ctx, func(
		zoneRepo repository.ZoneRepository,
		inventoryRepo repository.InventoryRepository,
		_ repository.ShipmentRepository,
	) error {
		current, err := zoneRepo.FindAllForUpdate(ctx)
		if err != nil {
			return err
		}
		if len(current) == 0 {
			current, err = uc.createDefaultZones(ctx, zoneRepo)
			if err != nil {
				return err
			}
			bootstrap = true
		}
		if err := reconcile(ctx, zoneRepo, inventoryRepo, current, uc.policy, uc.now()); err != nil {
			return err
		}
		zones = current
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("space.zones", len(zones)), attribute.Bool("space.bootstrap", bootstrap))
	if bootstrap {
		uc.log.Ctx(ctx).Info().Int("zones", len(zones)).Msg("zonas por defecto creadas")
	}
	ports.Publish(ctx, uc.events, uc.log, ports.Event{Type: ports.EventSpaceReconciled, Key: LockKey, Payload: toSpaceResponses(zones)})
	return toSpaceResponses(zones), nil
}

// UpdateSpaceUtilization reconcilia las zonas existentes contra el inventario.
// No crea zonas por defecto: sin zonas no hace nada.
func (uc *SpaceUseCase) UpdateSpaceUtilization(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "space.update_utilization")
	defer span.End()

	unlock, err := uc.locker.Lock(ctx, LockKey)
	if err != nil {
		return fmt.Errorf("bloqueo de zonas: %w", err)
	}
	defer unlock()

	var zones []*entity.Zone
	err = uc.txRunner.Run(ctx, func(
		zoneRepo repository.ZoneRepository,
		inventoryRepo repository.InventoryRepository,
		_ repository.ShipmentRepository,
	) error {
		var err error
		zones, err = ReconcileStored(ctx, zoneRepo, inventoryRepo, uc.policy, uc.now())
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if len(zones) > 0 {
		ports.Publish(ctx, uc.events, uc.log, ports.Event{Type: ports.EventSpaceReconciled, Key: LockKey, Payload: toSpaceResponses(zones)})
	}
	return nil
}

// AllocateSpace alta o edición manual de una zona. Si ya existe una zona con la misma etiqueta
// (sin distinguir mayúsculas) se sobrescriben total, usado y disponible con los valores recibidos;
// si no, se crea una zona nueva con esos valores.
func (uc *SpaceUseCase) AllocateSpace(ctx context.Context, in dto.AllocateSpaceRequest) (*dto.SpaceResponse, error) {
	label := strings.TrimSpace(in.Zone)
	if label == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.TotalCapacity < 0 || in.UsedCapacity < 0 || in.AvailableCapacity < 0 {
		return nil, domain.ErrInvalidInput
	}

	ctx, span := tracer.Start(ctx, "space.allocate")
	defer span.End()
	span.SetAttributes(attribute.String("space.zone", label))

	unlock, err := uc.locker.Lock(ctx, LockKey)
	if err != nil {
		return nil, fmt.Errorf("bloqueo de zonas: %w", err)
	}
	defer unlock()

	var out *entity.Zone
	err = uc.txRunner.Run(ctx, func(
		zoneRepo repository.ZoneRepository,
		_ repository.InventoryRepository,
		_ repository.ShipmentRepository,
	) error {
		zones, err := zoneRepo.FindAllForUpdate(ctx)
		if err != nil {
			return err
		}
		now := uc.now()
		if existing := space.FindByLabel(zones, label); existing != nil {
			existing.TotalCapacity = in.TotalCapacity
			existing.UsedCapacity = in.UsedCapacity
			existing.AvailableCapacity = in.AvailableCapacity
			existing.UpdatedAt = now
			out = existing
			return zoneRepo.Update(ctx, existing)
		}
		out = &entity.Zone{
			ID:                uuid.New().String(),
			Label:             label,
			TotalCapacity:     in.TotalCapacity,
			UsedCapacity:      in.UsedCapacity,
			AvailableCapacity: in.AvailableCapacity,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		return zoneRepo.Create(ctx, out)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp := toSpaceResponse(out)
	ports.Publish(ctx, uc.events, uc.log, ports.Event{Type: ports.EventSpaceAllocated, Key: out.ID, Payload: resp})
	return resp, nil
}

// FreeSpace elimina una zona por ID. El inventario que apuntaba a ella deja de contar.
func (uc *SpaceUseCase) FreeSpace(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidInput
	}
	unlock, err := uc.locker.Lock(ctx, LockKey)
	if err != nil {
		return fmt.Errorf("bloqueo de zonas: %w", err)
	}
	defer unlock()
	return uc.zoneRepo.Delete(ctx, id)
}

// GetSpace obtiene una zona por ID (nil si no existe). No reconcilia.
func (uc *SpaceUseCase) GetSpace(ctx context.Context, id string) (*dto.SpaceResponse, error) {
	z, err := uc.zoneRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if z == nil {
		return nil, nil
	}
	return toSpaceResponse(z), nil
}

// AllocateProductToSpace coloca quantity unidades de un producto en la zona indicada.
func (uc *SpaceUseCase) AllocateProductToSpace(ctx context.Context, zone string, quantity int) (bool, error) {
	return uc.PlaceIntoZone(ctx, zone, quantity)
}

// AllocateInventoryToSpace coloca quantity unidades usando la ubicación del inventario como zona.
func (uc *SpaceUseCase) AllocateInventoryToSpace(ctx context.Context, location string, quantity int) (bool, error) {
	return uc.PlaceIntoZone(ctx, location, quantity)
}

// PlaceIntoZone colocación incremental: busca la zona sin distinguir mayúsculas y, si tiene
// disponible >= quantity, suma a usado y resta de disponible. Devuelve false sin modificar nada
// si la zona no existe o no alcanza la capacidad.
func (uc *SpaceUseCase) PlaceIntoZone(ctx context.Context, label string, quantity int) (bool, error) {
	ctx, span := tracer.Start(ctx, "space.place")
	defer span.End()
	span.SetAttributes(attribute.String("space.zone", label), attribute.Int("space.quantity", quantity))

	unlock, err := uc.locker.Lock(ctx, LockKey)
	if err != nil {
		return false, fmt.Errorf("bloqueo de zonas: %w", err)
	}
	defer unlock()

	var placed *entity.Zone
	err = uc.txRunner.Run(ctx, func(
		zoneRepo repository.ZoneRepository,
		_ repository.InventoryRepository,
		_ repository.ShipmentRepository,
	) error {
		zones, err := zoneRepo.FindAllForUpdate(ctx)
		if err != nil {
			return err
		}
		z := space.FindByLabel(zones, label)
		if z == nil || !space.Place(z, quantity) {
			return nil
		}
		z.UpdatedAt = uc.now()
		if err := zoneRepo.Update(ctx, z); err != nil {
			return err
		}
		placed = z
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	span.SetAttributes(attribute.Bool("space.placed", placed != nil))
	if placed == nil {
		uc.log.Ctx(ctx).Debug().Str("zone", label).Int("quantity", quantity).Msg("colocación rechazada")
		return false, nil
	}
	ports.Publish(ctx, uc.events, uc.log, ports.Event{Type: ports.EventSpacePlaced, Key: placed.ID, Payload: toSpaceResponse(placed)})
	return true, nil
}

// ReconcileStored reconcilia dentro de una transacción ya abierta (repos atados a la tx).
// Sin zonas no hace nada y devuelve nil. El llamador debe tener tomado LockKey.
func ReconcileStored(
	ctx context.Context,
	zoneRepo repository.ZoneRepository,
	inventoryRepo repository.InventoryRepository,
	policy space.ClampPolicy,
	now time.Time,
) ([]*entity.Zone, error) {
	zones, err := zoneRepo.FindAllForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return nil, nil
	}
	if err := reconcile(ctx, zoneRepo, inventoryRepo, zones, policy, now); err != nil {
		return nil, err
	}
	return zones, nil
}

func reconcile(
	ctx context.Context,
	zoneRepo repository.ZoneRepository,
	inventoryRepo repository.InventoryRepository,
	zones []*entity.Zone,
	policy space.ClampPolicy,
	now time.Time,
) error {
	items, err := inventoryRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	space.Reconcile(zones, items, policy)
	for _, z := range zones {
		z.UpdatedAt = now
	}
	return zoneRepo.SaveAll(ctx, zones)
}

func (uc *SpaceUseCase) createDefaultZones(ctx context.Context, zoneRepo repository.ZoneRepository) ([]*entity.Zone, error) {
	zones := space.DefaultZones(uc.now())
	for _, z := range zones {
		z.ID = uuid.New().String()
		if err := zoneRepo.Create(ctx, z); err != nil {
			return nil, err
		}
	}
	return zones, nil
}

func toSpaceResponses(zones []*entity.Zone) []dto.SpaceResponse {
	out := make([]dto.SpaceResponse, 0, len(zones))
	for _, z := range zones {
		out = append(out, *toSpaceResponse(z))
	}
	return out
}

func toSpaceResponse(z *entity.Zone) *dto.SpaceResponse {
	if z == nil {
		return nil
	}
	return &dto.SpaceResponse{
		ID:                z.ID,
		Zone:              z.Label,
		TotalCapacity:     z.TotalCapacity,
		UsedCapacity:      z.UsedCapacity,
		AvailableCapacity: z.AvailableCapacity,
		OccupancyPercent:  space.OccupancyPercent(z.TotalCapacity, z.UsedCapacity),
		UpdatedAt:         z.UpdatedAt,
	}
}
