package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Motivos de conflicto reportados por una actualización en batch
const (
	ConflictReasonStale    = "stale_item"
	ConflictReasonNotFound = "item_not_found"
)

// ItemUpdate agrupa los campos editados de un item desde la última escritura.
// Solo los campos no-nil se envían al backend ("only send what changed").
// LastKnownTimestamp es el updated_at leído por el cliente; si al escribir el
// timestamp almacenado avanzó, el item se reporta como conflicto.
type ItemUpdate struct {
	ItemID             uuid.UUID
	Quantity           *int
	DiscountPercent    *decimal.Decimal
	UnitPrice          *decimal.Decimal
	LastKnownTimestamp *time.Time
}

// IsEmpty indica si la actualización no cambia ningún campo
func (u ItemUpdate) IsEmpty() bool {
	return u.Quantity == nil && u.DiscountPercent == nil && u.UnitPrice == nil
}

// ItemConflict identifica un item cuya escritura fue rechazada por lock optimista
type ItemConflict struct {
	ItemID          uuid.UUID  `json:"id"`
	Reason          string     `json:"reason"`
	ServerTimestamp *time.Time `json:"server_timestamp,omitempty"`
}

// BatchResult es el resultado de aplicar un batch de actualizaciones.
// Invariante: AppliedCount + len(Conflicts) <= items enviados.
type BatchResult struct {
	AppliedCount int            `json:"applied_count"`
	Conflicts    []ItemConflict `json:"conflicts"`
}
