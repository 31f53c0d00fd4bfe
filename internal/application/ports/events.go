package ports

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Tipos de evento publicados tras un commit exitoso.
const (
	EventShipmentReceived   = "shipment.received"
	EventShipmentDispatched = "shipment.dispatched"
	EventShipmentDeleted    = "shipment.deleted"
	EventSpaceReconciled    = "space.reconciled"
	EventSpaceAllocated     = "space.allocated"
	EventSpacePlaced        = "space.placed"
)

// Event evento de dominio serializable (JSON) hacia el bus de mensajes.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// EventPublisher puerto de salida para eventos de dominio.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher descarta los eventos (sin broker configurado).
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// PublishTimeout tope de espera al broker por evento.
const PublishTimeout = 2 * time.Second

// Publish publica en modo best-effort: un fallo del broker se registra y no afecta la operación
// que ya fue confirmada en la BD. La espera se acota con PublishTimeout y no depende de la
// cancelación de la petición; la traza de ctx se conserva.
func Publish(ctx context.Context, pub EventPublisher, log *logger.Logger, event Event) {
	if pub == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
	defer cancel()
	if err := pub.Publish(pubCtx, event); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("event", event.Type).Str("key", event.Key).Msg("publicar evento")
	}
}
