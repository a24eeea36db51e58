package request

import "github.com/shopspring/decimal"

// CreateOpportunityItemRequest representa un item dentro del request de creación
type CreateOpportunityItemRequest struct {
	SKU             string          `json:"sku"`
	ProductName     string          `json:"product_name" binding:"required"`
	Quantity        int             `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// CreateOpportunityRequest representa el request para crear una oportunidad
type CreateOpportunityRequest struct {
	Title       string                         `json:"title" binding:"required"`
	FreightMode string                         `json:"freight_mode"`
	Items       []CreateOpportunityItemRequest `json:"items" binding:"required,min=1"`
}
