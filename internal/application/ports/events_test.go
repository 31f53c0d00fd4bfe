package ports_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

type capturingPublisher struct {
	events []ports.Event
	err    error
}

func (p *capturingPublisher) Publish(_ context.Context, e ports.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func TestPublish_CompletaFecha(t *testing.T) {
	pub := &capturingPublisher{}
	ports.Publish(context.Background(), pub, logger.Nop(), ports.Event{Type: ports.EventShipmentReceived, Key: "s1"})

	require.Len(t, pub.events, 1)
	assert.False(t, pub.events[0].OccurredAt.IsZero())

	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ports.Publish(context.Background(), pub, logger.Nop(), ports.Event{Type: ports.EventShipmentDeleted, OccurredAt: fixed})
	assert.Equal(t, fixed, pub.events[1].OccurredAt)
}

func TestPublish_ErrorDelBrokerNoSePropaga(t *testing.T) {
	pub := &capturingPublisher{err: errors.New("broker caído")}
	assert.NotPanics(t, func() {
		ports.Publish(context.Background(), pub, logger.Nop(), ports.Event{Type: ports.EventSpaceAllocated})
	})
	assert.Len(t, pub.events, 1)
}

func TestPublish_SinPublicador(t *testing.T) {
	assert.NotPanics(t, func() {
		ports.Publish(context.Background(), nil, logger.Nop(), ports.Event{Type: ports.EventSpacePlaced})
		ports.Publish(context.Background(), ports.NopPublisher{}, logger.Nop(), ports.Event{Type: ports.EventSpacePlaced})
	})
}

type ctxKey struct{}

type ctxPublisher struct {
	deadline  time.Time
	bounded   bool
	errAtCall error
	value     any
}

func (p *ctxPublisher) Publish(ctx context.Context, _ ports.Event) error {
	p.deadline, p.bounded = ctx.Deadline()
	p.errAtCall = ctx.Err()
	p.value = ctx.Value(ctxKey{})
	return nil
}

func TestPublish_EsperaAcotadaEIndependienteDeLaPeticion(t *testing.T) {
	parent, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "traza"))
	cancel()

	pub := &ctxPublisher{}
	start := time.Now()
	ports.Publish(parent, pub, logger.Nop(), ports.Event{Type: ports.EventSpaceAllocated})

	require.True(t, pub.bounded, "el envío al broker debe tener plazo")
	assert.WithinDuration(t, start.Add(ports.PublishTimeout), pub.deadline, time.Second)
	assert.NoError(t, pub.errAtCall, "la petición cancelada no aborta la publicación")
	assert.Equal(t, "traza", pub.value)
}
