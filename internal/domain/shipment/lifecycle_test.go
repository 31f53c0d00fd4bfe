package shipment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/shipment"
)

func TestIsActive(t *testing.T) {
	for _, s := range []string{"Received", "received", "RECEIVED"} {
		assert.True(t, shipment.IsActive(s), s)
	}
	for _, s := range []string{"", "In Transit", "Receive", "Dispatched", " Received ", "Received\t"} {
		assert.False(t, shipment.IsActive(s), s)
	}
}

func TestHasActiveReceived(t *testing.T) {
	list := []*entity.Shipment{
		{InventoryID: "item-1", Status: "Dispatched"},
		{InventoryID: "item-2", Status: "rEcEiVeD"},
		nil,
	}
	assert.False(t, shipment.HasActiveReceived(list, "item-1"))
	assert.True(t, shipment.HasActiveReceived(list, "item-2"))
	assert.False(t, shipment.HasActiveReceived(list, "item-3"))
}

func TestParseDeliveryDate(t *testing.T) {
	got, ok := shipment.ParseDeliveryDate("2026-03-15T08:30:00")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 15, 8, 30, 0, 0, time.Local), got)

	got, ok = shipment.ParseDeliveryDate("2026-03-15T08:30:00.000Z")
	assert.True(t, ok)
	assert.Equal(t, 8, got.Hour())

	for _, raw := range []string{"", "   ", "15/03/2026", "2026-03-15T08:30", "mañana"} {
		_, ok := shipment.ParseDeliveryDate(raw)
		assert.False(t, ok, raw)
	}
}

func TestResolveDeliveryDate_Politicas(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	got, substituted := shipment.ResolveDeliveryDate("no-es-fecha", current, now, shipment.FallbackNow)
	assert.True(t, substituted)
	assert.Equal(t, now, got)

	got, substituted = shipment.ResolveDeliveryDate("", current, now, shipment.FallbackKeep)
	assert.True(t, substituted)
	assert.Equal(t, current, got)

	got, substituted = shipment.ResolveDeliveryDate("2026-05-05T10:00:00", current, now, shipment.FallbackKeep)
	assert.False(t, substituted)
	assert.Equal(t, time.Date(2026, 5, 5, 10, 0, 0, 0, time.Local), got)
}
