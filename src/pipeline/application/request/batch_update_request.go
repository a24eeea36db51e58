package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchUpdateItemRequest representa la edición de un item dentro del batch.
// Solo los campos presentes se aplican; last_known_timestamp es el updated_at
// leído por el cliente, usado para el chequeo de lock optimista.
type BatchUpdateItemRequest struct {
	ID                 uuid.UUID        `json:"id" binding:"required"`
	Quantity           *int             `json:"quantity,omitempty"`
	DiscountPercent    *decimal.Decimal `json:"discount_percent,omitempty"`
	UnitPrice          *decimal.Decimal `json:"unit_price,omitempty"`
	LastKnownTimestamp *time.Time       `json:"last_known_timestamp,omitempty"`
}

// BatchUpdateRequest representa el request del endpoint de batch update
type BatchUpdateRequest struct {
	Items []BatchUpdateItemRequest `json:"items" binding:"required,min=1"`
}
