package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConfirmFreightRequest representa el request de confirmación de flete
type ConfirmFreightRequest struct {
	CarrierID    uuid.UUID       `json:"carrier_id" binding:"required"`
	TotalFreight decimal.Decimal `json:"total_freight"`
}

// QuoteFreightRequest representa el request de cotización de flete
type QuoteFreightRequest struct {
	TotalWeightKg  decimal.Decimal `json:"total_weight_kg"`
	DestinationZip string          `json:"destination_zip" binding:"required"`
}
