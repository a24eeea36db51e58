package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpportunityStage representa la etapa de una oportunidad en el pipeline
type OpportunityStage string

const (
	StageOpen OpportunityStage = "OPEN"
	StageWon  OpportunityStage = "WON"
	StageLost OpportunityStage = "LOST"
)

// FreightMode indica quién asume el flete de la oportunidad
type FreightMode string

const (
	// FreightCIF el vendedor asume el flete y se prorratea entre items
	FreightCIF FreightMode = "CIF"
	// FreightFOB el comprador asume el flete, sin prorrateo
	FreightFOB FreightMode = "FOB"
)

// Opportunity representa una oportunidad de venta (Aggregate Root).
// Una oportunidad contiene uno o más LineItems.
type Opportunity struct {
	ID           uuid.UUID        `json:"id"`
	TenantID     uuid.UUID        `json:"tenant_id"`
	Title        string           `json:"title"`
	Stage        OpportunityStage `json:"stage"`
	FreightMode  FreightMode      `json:"freight_mode"`
	TotalValue   decimal.Decimal  `json:"total_value"`   // Suma de NetValue de los items
	TotalFreight decimal.Decimal  `json:"total_freight"` // Flete confirmado (cero hasta confirmar)
	CreatedAt    time.Time        `json:"created_at"`
	Items        []LineItem       `json:"items"` // DDD: Collection of entities
}

// NewOpportunity crea una nueva oportunidad con múltiples items (DDD Aggregate Root)
func NewOpportunity(tenantID uuid.UUID, title string, freightMode FreightMode, items []LineItem) (*Opportunity, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantIDRequired
	}
	if title == "" {
		return nil, ErrTitleRequired
	}
	if freightMode != FreightCIF && freightMode != FreightFOB {
		return nil, ErrInvalidFreightMode
	}
	if len(items) == 0 {
		return nil, ErrOpportunityMustHaveItems
	}

	opportunityID := uuid.New()

	// Asignar opportunity_id a todos los items y acumular el total
	totalValue := decimal.Zero
	for i := range items {
		items[i].OpportunityID = opportunityID
		totalValue = totalValue.Add(items[i].NetValue())
	}

	return &Opportunity{
		ID:           opportunityID,
		TenantID:     tenantID,
		Title:        title,
		Stage:        StageOpen,
		FreightMode:  freightMode,
		TotalValue:   totalValue,
		TotalFreight: decimal.Zero,
		CreatedAt:    time.Now(),
		Items:        items,
	}, nil
}

// TotalItems retorna el número total de items
func (o *Opportunity) TotalItems() int {
	return len(o.Items)
}

// RecalculateTotal recalcula el total de la oportunidad desde sus items
func (o *Opportunity) RecalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].NetValue())
	}
	o.TotalValue = total
}

// MarkWon marca la oportunidad como ganada
func (o *Opportunity) MarkWon() error {
	if o.Stage != StageOpen {
		return ErrOpportunityNotOpen
	}
	o.Stage = StageWon
	return nil
}

// MarkLost marca la oportunidad como perdida
func (o *Opportunity) MarkLost() error {
	if o.Stage != StageOpen {
		return ErrOpportunityNotOpen
	}
	o.Stage = StageLost
	return nil
}
