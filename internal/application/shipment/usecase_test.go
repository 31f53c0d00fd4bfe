package shipment_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/application/shipment"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func newUseCase(t *testing.T) (*shipment.ShipmentUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := shipment.NewShipmentUseCase(store, store.Shipments(), memory.NewLocker(), ports.NopPublisher{}, logger.Nop())
	require.NoError(t, store.Inventory().Create(context.Background(), &entity.InventoryItem{ID: "item-1", Name: "Tornillos", Quantity: 10, Location: "A"}))
	return uc, store
}

func received(itemID string) dto.ShipmentRequest {
	return dto.ShipmentRequest{
		ItemID:               itemID,
		Origin:               "Bogotá",
		Destination:          "Medellín",
		Status:               "Received",
		ExpectedDeliveryDate: "2024-05-01T10:30:00",
	}
}

func TestReceive_CreaEnvio(t *testing.T) {
	uc, _ := newUseCase(t)

	resp, err := uc.Receive(context.Background(), received("item-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "item-1", resp.ItemID)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.Local), resp.ExpectedDeliveryDate)
}

func TestReceive_DuplicadoYLuegoPermitidoTrasDespacho(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	first, err := uc.Receive(ctx, received("item-1"))
	require.NoError(t, err)

	// El duplicado se rechaza sin importar el estado del envío nuevo.
	other := received("item-1")
	other.Status = "In Transit"
	_, err = uc.Receive(ctx, other)
	require.ErrorIs(t, err, domain.ErrDuplicateActiveShipment)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Dispatch(ctx, first.ID, dto.ShipmentRequest{Origin: "Bogotá", Destination: "Cali", Status: "Dispatched"})
	require.NoError(t, err)

	_, err = uc.Receive(ctx, received("item-1"))
	assert.NoError(t, err)
}

// El despacho sobrescribe el estado sin volver a comprobar que el ítem tenga un solo
// envío "Received"; sólo Receive lo impide.
func TestDispatch_APasarAReceivedNoSeRevalida(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	s1, err := uc.Receive(ctx, received("item-1"))
	require.NoError(t, err)
	_, err = uc.Dispatch(ctx, s1.ID, dto.ShipmentRequest{Origin: "Bogotá", Destination: "Cali", Status: "Dispatched"})
	require.NoError(t, err)

	s2, err := uc.Receive(ctx, received("item-1"))
	require.NoError(t, err)

	_, err = uc.Dispatch(ctx, s1.ID, dto.ShipmentRequest{Origin: "Cali", Destination: "Bogotá", Status: "Received"})
	require.NoError(t, err)

	for _, id := range []string{s1.ID, s2.ID} {
		got, err := uc.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Received", got.Status, id)
	}

	_, err = uc.Receive(ctx, received("item-1"))
	assert.ErrorIs(t, err, domain.ErrDuplicateActiveShipment)
}

func TestReceive_EstadoSinDistinguirMayusculas(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)
	req := received("item-1")
	req.Status = "RECEIVED"
	_, err := uc.Receive(ctx, req)
	require.NoError(t, err)

	_, err = uc.Receive(ctx, received("item-1"))
	assert.ErrorIs(t, err, domain.ErrDuplicateActiveShipment)
}

func TestReceive_Validaciones(t *testing.T) {
	uc, _ := newUseCase(t)

	_, err := uc.Receive(context.Background(), received(" "))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Receive(context.Background(), received("no-existe"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceive_FechaInvalidaUsaHoraActual(t *testing.T) {
	uc, _ := newUseCase(t)
	req := received("item-1")
	req.ExpectedDeliveryDate = "mañana"

	before := time.Now()
	resp, err := uc.Receive(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.ExpectedDeliveryDate.Before(before.Truncate(time.Second)))
}

func TestReceive_ConcurrenteSoloUnoGana(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.Receive(ctx, received("item-1"))
		}()
	}
	wg.Wait()

	list, err := store.Shipments().ListByInventory(ctx, "item-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDispatch_ConservaFechaSiNoEsValida(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)
	created, err := uc.Receive(ctx, received("item-1"))
	require.NoError(t, err)

	resp, err := uc.Dispatch(ctx, created.ID, dto.ShipmentRequest{Origin: "X", Destination: "Y", Status: "Dispatched", ExpectedDeliveryDate: "basura"})
	require.NoError(t, err)
	assert.Equal(t, created.ExpectedDeliveryDate, resp.ExpectedDeliveryDate)
	assert.Equal(t, "X", resp.Origin)
	assert.Equal(t, "Dispatched", resp.Status)

	resp, err = uc.Dispatch(ctx, created.ID, dto.ShipmentRequest{Status: "Dispatched", ExpectedDeliveryDate: "2025-01-02T03:04:05"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local), resp.ExpectedDeliveryDate)
	assert.Empty(t, resp.Origin, "origen se sobrescribe siempre")
}

func TestDispatch_NoExiste(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Dispatch(context.Background(), "nada", dto.ShipmentRequest{Status: "Dispatched"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrack_ItemNoResueltoDevuelveNil(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(t)
	created, err := uc.Receive(ctx, received("item-1"))
	require.NoError(t, err)

	view, err := uc.Track(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, view.ItemID)
	assert.Equal(t, "item-1", *view.ItemID)

	require.NoError(t, store.Inventory().Delete(ctx, "item-1"))

	view, err = uc.Track(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Nil(t, view.ItemID)
	assert.Equal(t, "Received", view.Status)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].ItemID)
}

func TestTrack_EnvioInexistente(t *testing.T) {
	uc, _ := newUseCase(t)
	view, err := uc.Track(context.Background(), "nada")
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)
	created, err := uc.Receive(ctx, received("item-1"))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))
	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrNotFound)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
