package usecase

import (
	"context"
	"fmt"

	"pipeline/src/pipeline/application/request"
	"pipeline/src/pipeline/application/response"
	"pipeline/src/pipeline/domain/entity"
	"pipeline/src/pipeline/domain/port"

	"github.com/google/uuid"
)

// CreateOpportunityUseCase caso de uso para crear una oportunidad
type CreateOpportunityUseCase struct {
	opportunityRepo port.OpportunityRepository
}

// NewCreateOpportunityUseCase crea una nueva instancia del caso de uso
func NewCreateOpportunityUseCase(opportunityRepo port.OpportunityRepository) *CreateOpportunityUseCase {
	return &CreateOpportunityUseCase{
		opportunityRepo: opportunityRepo,
	}
}

// Execute crea la oportunidad con sus items y la persiste como aggregate
func (uc *CreateOpportunityUseCase) Execute(ctx context.Context, tenantID uuid.UUID, req *request.CreateOpportunityRequest) (*response.OpportunityResponse, error) {
	// 1. Construir los items validando cada uno
	items := make([]entity.LineItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		item, err := entity.NewLineItem(
			uuid.Nil, // el aggregate asigna el opportunity_id
			itemReq.SKU,
			itemReq.ProductName,
			itemReq.Quantity,
			itemReq.UnitPrice,
			itemReq.DiscountPercent,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	// 2. Modo de flete: CIF por defecto (flete del vendedor, prorrateable)
	freightMode := entity.FreightMode(req.FreightMode)
	if freightMode == "" {
		freightMode = entity.FreightCIF
	}

	// 3. Crear el aggregate
	opportunity, err := entity.NewOpportunity(tenantID, req.Title, freightMode, items)
	if err != nil {
		return nil, err
	}

	// 4. Persistir
	if err := uc.opportunityRepo.Save(ctx, opportunity); err != nil {
		return nil, fmt.Errorf("error saving opportunity: %w", err)
	}

	return response.FromOpportunity(opportunity), nil
}
