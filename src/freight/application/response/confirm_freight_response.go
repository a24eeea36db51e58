package response

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemAllocationResponse representa el flete asignado a un item
type ItemAllocationResponse struct {
	ItemID           uuid.UUID       `json:"item_id"`
	AllocatedFreight decimal.Decimal `json:"allocated_freight"`
}

// ConfirmFreightResponse representa la respuesta de confirmación de flete
type ConfirmFreightResponse struct {
	OpportunityID uuid.UUID                `json:"opportunity_id"`
	CarrierID     uuid.UUID                `json:"carrier_id"`
	CarrierName   string                   `json:"carrier_name"`
	TotalFreight  decimal.Decimal          `json:"total_freight"`
	Allocations   []ItemAllocationResponse `json:"allocations"`
}
