package usecase

import (
	"context"

	"pipeline/src/pipeline/application/response"
	"pipeline/src/pipeline/domain/port"

	"github.com/google/uuid"
)

// GetOpportunityUseCase caso de uso para obtener una oportunidad por ID
type GetOpportunityUseCase struct {
	opportunityRepo port.OpportunityRepository
}

// NewGetOpportunityUseCase crea una nueva instancia del caso de uso
func NewGetOpportunityUseCase(opportunityRepo port.OpportunityRepository) *GetOpportunityUseCase {
	return &GetOpportunityUseCase{
		opportunityRepo: opportunityRepo,
	}
}

// Execute busca la oportunidad con sus items (load aggregate).
// El repositorio ya traduce sql.ErrNoRows a ErrOpportunityNotFound; cualquier
// otro error es una falla de infraestructura y se propaga tal cual.
func (uc *GetOpportunityUseCase) Execute(ctx context.Context, opportunityID, tenantID uuid.UUID) (*response.OpportunityResponse, error) {
	opportunity, err := uc.opportunityRepo.FindByID(ctx, opportunityID, tenantID)
	if err != nil {
		return nil, err
	}

	return response.FromOpportunity(opportunity), nil
}
