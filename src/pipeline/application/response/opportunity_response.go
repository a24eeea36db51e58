package response

import (
	"time"

	"pipeline/src/pipeline/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpportunityItemResponse representa un item en las respuestas de oportunidad
type OpportunityItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	SKU              string          `json:"sku"`
	ProductName      string          `json:"product_name"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	DiscountPercent  decimal.Decimal `json:"discount_percent"`
	NetValue         decimal.Decimal `json:"net_value"`
	AllocatedFreight decimal.Decimal `json:"allocated_freight"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OpportunityResponse representa una oportunidad con sus items
type OpportunityResponse struct {
	ID           uuid.UUID                 `json:"id"`
	TenantID     uuid.UUID                 `json:"tenant_id"`
	Title        string                    `json:"title"`
	Stage        string                    `json:"stage"`
	FreightMode  string                    `json:"freight_mode"`
	TotalValue   decimal.Decimal           `json:"total_value"`
	TotalFreight decimal.Decimal           `json:"total_freight"`
	CreatedAt    time.Time                 `json:"created_at"`
	Items        []OpportunityItemResponse `json:"items"`
}

// FromOpportunity convierte la entidad a response
func FromOpportunity(o *entity.Opportunity) *OpportunityResponse {
	items := make([]OpportunityItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OpportunityItemResponse{
			ID:               item.ID,
			SKU:              item.SKU,
			ProductName:      item.ProductName,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			DiscountPercent:  item.DiscountPercent,
			NetValue:         item.NetValue(),
			AllocatedFreight: item.AllocatedFreight,
			UpdatedAt:        item.UpdatedAt,
		})
	}

	return &OpportunityResponse{
		ID:           o.ID,
		TenantID:     o.TenantID,
		Title:        o.Title,
		Stage:        string(o.Stage),
		FreightMode:  string(o.FreightMode),
		TotalValue:   o.TotalValue,
		TotalFreight: o.TotalFreight,
		CreatedAt:    o.CreatedAt,
		Items:        items,
	}
}

// ListOpportunitiesResponse respuesta paginada del listado
type ListOpportunitiesResponse struct {
	Items      []*OpportunityResponse `json:"items"`
	TotalCount int                    `json:"total_count"`
	Limit      int                    `json:"limit"`
	Offset     int                    `json:"offset"`
}
