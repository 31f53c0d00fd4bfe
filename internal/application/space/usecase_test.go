package space_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/application/space"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newUseCase(t *testing.T) (*space.SpaceUseCase, *memory.Store, *recordingPublisher) {
	t.Helper()
	store := memory.NewStore()
	pub := &recordingPublisher{}
	uc := space.NewSpaceUseCase(store, store.Zones(), memory.NewLocker(), pub, logger.Nop())
	return uc, store, pub
}

func addItem(t *testing.T, store *memory.Store, id string, qty int, loc string) {
	t.Helper()
	require.NoError(t, store.Inventory().Create(context.Background(), &entity.InventoryItem{ID: id, Quantity: qty, Location: loc}))
}

func byLabel(zones []dto.SpaceResponse, label string) *dto.SpaceResponse {
	for i := range zones {
		if zones[i].Zone == label {
			return &zones[i]
		}
	}
	return nil
}

func TestViewSpaceUsage_CreaZonasPorDefectoUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newUseCase(t)

	first, err := uc.ViewSpaceUsage(ctx)
	require.NoError(t, err)
	require.Len(t, first, 4)
	for i, label := range []string{"A", "B", "C", "D"} {
		assert.Equal(t, label, first[i].Zone)
		assert.Equal(t, 1000, first[i].TotalCapacity)
		assert.Equal(t, 0, first[i].UsedCapacity)
		assert.Equal(t, 1000, first[i].AvailableCapacity)
	}

	second, err := uc.ViewSpaceUsage(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 4)

	stored, err := store.Zones().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 4, "la segunda lectura no debe crear zonas")
}

func TestViewSpaceUsage_ReconciliaContraInventario(t *testing.T) {
	ctx := context.Background()
	uc, store, pub := newUseCase(t)
	addItem(t, store, "i1", 300, "A")
	addItem(t, store, "i2", 50, "A")
	addItem(t, store, "i3", 10, "Z")

	zones, err := uc.ViewSpaceUsage(ctx)
	require.NoError(t, err)

	a := byLabel(zones, "A")
	require.NotNil(t, a)
	assert.Equal(t, 350, a.UsedCapacity)
	assert.Equal(t, 650, a.AvailableCapacity)
	b := byLabel(zones, "B")
	require.NotNil(t, b)
	assert.Equal(t, 0, b.UsedCapacity)
	assert.Equal(t, 1000, b.AvailableCapacity)
	assert.Nil(t, byLabel(zones, "Z"), "la ubicación Z no crea zona")

	assert.Contains(t, pub.types(), ports.EventSpaceReconciled)
}

func TestAllocateProductToSpace_RechazaSinCapacidad(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newUseCase(t)
	addItem(t, store, "i1", 350, "A")
	_, err := uc.ViewSpaceUsage(ctx)
	require.NoError(t, err)

	ok, err := uc.AllocateProductToSpace(ctx, "a", 700)
	require.NoError(t, err)
	assert.False(t, ok)

	zones, err := store.Zones().FindAll(ctx)
	require.NoError(t, err)
	for _, z := range zones {
		if z.Label == "A" {
			assert.Equal(t, 350, z.UsedCapacity, "la zona no debe cambiar")
			assert.Equal(t, 650, z.AvailableCapacity)
		}
	}
}

func TestAllocateInventoryToSpace_SumaCuandoCabe(t *testing.T) {
	ctx := context.Background()
	uc, store, pub := newUseCase(t)
	_, err := uc.ViewSpaceUsage(ctx)
	require.NoError(t, err)

	ok, err := uc.AllocateInventoryToSpace(ctx, "b", 1000)
	require.NoError(t, err)
	assert.True(t, ok)

	zones, err := store.Zones().FindAll(ctx)
	require.NoError(t, err)
	for _, z := range zones {
		if z.Label == "B" {
			assert.Equal(t, 1000, z.UsedCapacity)
			assert.Equal(t, 0, z.AvailableCapacity)
		}
	}
	assert.Contains(t, pub.types(), ports.EventSpacePlaced)

	ok, err = uc.AllocateInventoryToSpace(ctx, "Q", 1)
	require.NoError(t, err)
	assert.False(t, ok, "zona inexistente")
}

func TestAllocateSpace_SobrescribeSinDistinguirMayusculas(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newUseCase(t)
	_, err := uc.ViewSpaceUsage(ctx)
	require.NoError(t, err)

	resp, err := uc.AllocateSpace(ctx, dto.AllocateSpaceRequest{Zone: "c", TotalCapacity: 500, UsedCapacity: 20, AvailableCapacity: 480})
	require.NoError(t, err)
	assert.Equal(t, "C", resp.Zone, "conserva la etiqueta original")
	assert.Equal(t, 500, resp.TotalCapacity)

	zones, err := store.Zones().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, zones, 4)
}

func TestAllocateSpace_CreaZonaNueva(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newUseCase(t)

	resp, err := uc.AllocateSpace(ctx, dto.AllocateSpaceRequest{Zone: " E ", TotalCapacity: 200, AvailableCapacity: 200})
	require.NoError(t, err)
	assert.Equal(t, "E", resp.Zone)
	assert.NotEmpty(t, resp.ID)

	got, err := uc.GetSpace(ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 200, got.TotalCapacity)

	zones, err := store.Zones().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, zones, 1)
}

func TestViewSpaceUsage_NoCreaPorDefectoSiYaHayZonas(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newUseCase(t)

	_, err := uc.AllocateSpace(ctx, dto.AllocateSpaceRequest{Zone: "X", TotalCapacity: 300, AvailableCapacity: 300})
	require.NoError(t, err)

	zones, err := uc.ViewSpaceUsage(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "X", zones[0].Zone)
	for _, label := range []string{"A", "B", "C", "D"} {
		assert.Nil(t, byLabel(zones, label), label)
	}

	stored, err := store.Zones().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestAllocateSpace_EszettNoSobrescribeSS(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newUseCase(t)

	eszett, err := uc.AllocateSpace(ctx, dto.AllocateSpaceRequest{Zone: "ß", TotalCapacity: 10, AvailableCapacity: 10})
	require.NoError(t, err)
	ss, err := uc.AllocateSpace(ctx, dto.AllocateSpaceRequest{Zone: "SS", TotalCapacity: 99, AvailableCapacity: 99})
	require.NoError(t, err)
	assert.NotEqual(t, eszett.ID, ss.ID)

	got, err := uc.GetSpace(ctx, eszett.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.TotalCapacity)

	zones, err := store.Zones().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, zones, 2)
}

func TestAllocateSpace_EtiquetaVacia(t *testing.T) {
	uc, _, _ := newUseCase(t)
	_, err := uc.AllocateSpace(context.Background(), dto.AllocateSpaceRequest{Zone: "  ", TotalCapacity: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateSpaceUtilization_SinZonasNoHaceNada(t *testing.T) {
	ctx := context.Background()
	uc, store, pub := newUseCase(t)
	addItem(t, store, "i1", 10, "A")

	require.NoError(t, uc.UpdateSpaceUtilization(ctx))

	zones, err := store.Zones().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, zones)
	assert.Empty(t, pub.types())
}

func TestFreeSpace_EliminaZona(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newUseCase(t)
	zones, err := uc.ViewSpaceUsage(ctx)
	require.NoError(t, err)

	require.NoError(t, uc.FreeSpace(ctx, zones[0].ID))

	got, err := uc.GetSpace(ctx, zones[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPlaceIntoZone_ConcurrenteNoSuperaCapacidad(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newUseCase(t)
	_, err := uc.AllocateSpace(ctx, dto.AllocateSpaceRequest{Zone: "A", TotalCapacity: 100, AvailableCapacity: 100})
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := uc.PlaceIntoZone(ctx, "A", 10)
			if assert.NoError(t, err) && ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, accepted)
	zones, err := store.Zones().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, 100, zones[0].UsedCapacity)
	assert.Equal(t, 0, zones[0].AvailableCapacity)
}
