package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem representa un item dentro de una oportunidad (Entity dentro del Aggregate).
// UpdatedAt es el timestamp de lock optimista: cada escritura del item lo avanza
// y las actualizaciones en batch lo comparan contra el último valor leído.
type LineItem struct {
	ID               uuid.UUID       `json:"id"`
	OpportunityID    uuid.UUID       `json:"opportunity_id"`
	SKU              string          `json:"sku"`
	ProductName      string          `json:"product_name"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	DiscountPercent  decimal.Decimal `json:"discount_percent"`
	AllocatedFreight decimal.Decimal `json:"allocated_freight"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

var oneHundred = decimal.NewFromInt(100)

// NewLineItem crea un nuevo item de oportunidad
func NewLineItem(
	opportunityID uuid.UUID,
	sku string,
	productName string,
	quantity int,
	unitPrice decimal.Decimal,
	discountPercent decimal.Decimal,
) (*LineItem, error) {
	// Validaciones básicas
	if productName == "" {
		return nil, ErrProductNameRequired
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitPrice.LessThan(decimal.Zero) {
		return nil, ErrInvalidUnitPrice
	}
	if discountPercent.LessThan(decimal.Zero) || discountPercent.GreaterThan(oneHundred) {
		return nil, ErrInvalidDiscountPercent
	}

	return &LineItem{
		ID:               uuid.New(),
		OpportunityID:    opportunityID,
		SKU:              sku,
		ProductName:      productName,
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		DiscountPercent:  discountPercent,
		AllocatedFreight: decimal.Zero,
		UpdatedAt:        time.Now(),
	}, nil
}

// NetValue calcula el valor del item antes de flete:
// cantidad × precio unitario × (1 − descuento/100), redondeado a 2 decimales
func (li *LineItem) NetValue() decimal.Decimal {
	gross := li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
	factor := decimal.NewFromInt(1).Sub(li.DiscountPercent.Div(oneHundred))
	return gross.Mul(factor).Round(2)
}
