package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationRepository persiste el resultado de una confirmación de flete
type AllocationRepository interface {
	// SaveAllocations escribe el flete total y el carrier en la oportunidad y
	// el flete asignado en cada item, todo en una sola transacción.
	// Cada escritura de item avanza su updated_at (el carrier confirmado es
	// una modificación más a efectos del lock optimista).
	SaveAllocations(
		ctx context.Context,
		opportunityID, tenantID uuid.UUID,
		carrierID uuid.UUID,
		totalFreight decimal.Decimal,
		allocations map[uuid.UUID]decimal.Decimal,
	) error
}
