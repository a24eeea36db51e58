package port

import "context"

// Eventos de dominio publicados por el servicio
const (
	EventItemsUpdated     = "pipeline.items.updated"
	EventFreightConfirmed = "pipeline.freight.confirmed"
)

// EventPublisher publica eventos de dominio hacia el broker.
// Las fallas de publicación nunca abortan la operación de negocio.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload interface{}) error
}
