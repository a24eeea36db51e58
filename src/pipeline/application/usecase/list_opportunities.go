package usecase

import (
	"context"
	"fmt"

	"pipeline/src/pipeline/application/response"
	"pipeline/src/pipeline/domain/port"
	domainCriteria "pipeline/src/shared/domain/criteria"

	"github.com/google/uuid"
)

// ListOpportunitiesUseCase caso de uso para listar oportunidades con criteria
type ListOpportunitiesUseCase struct {
	opportunityRepo port.OpportunityRepository
}

// NewListOpportunitiesUseCase crea una nueva instancia del caso de uso
func NewListOpportunitiesUseCase(opportunityRepo port.OpportunityRepository) *ListOpportunitiesUseCase {
	return &ListOpportunitiesUseCase{
		opportunityRepo: opportunityRepo,
	}
}

// Execute lista las oportunidades del tenant según los criterios de búsqueda
func (uc *ListOpportunitiesUseCase) Execute(ctx context.Context, tenantID uuid.UUID, criteria domainCriteria.Criteria) (*response.ListOpportunitiesResponse, error) {
	opportunities, totalCount, err := uc.opportunityRepo.Search(ctx, tenantID, criteria)
	if err != nil {
		return nil, fmt.Errorf("error listing opportunities: %w", err)
	}

	items := make([]*response.OpportunityResponse, 0, len(opportunities))
	for _, o := range opportunities {
		items = append(items, response.FromOpportunity(o))
	}

	limit := 10
	offset := 0
	if criteria.Limit != nil {
		limit = *criteria.Limit
	}
	if criteria.Offset != nil {
		offset = *criteria.Offset
	}

	return &response.ListOpportunitiesResponse{
		Items:      items,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	}, nil
}
