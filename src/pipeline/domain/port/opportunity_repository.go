package port

import (
	"context"

	"pipeline/src/pipeline/domain/entity"
	domainCriteria "pipeline/src/shared/domain/criteria"

	"github.com/google/uuid"
)

// OpportunityRepository define el contrato de persistencia de oportunidades
type OpportunityRepository interface {
	// Save persiste una oportunidad con sus items (aggregate completo)
	Save(ctx context.Context, opportunity *entity.Opportunity) error

	// FindByID busca una oportunidad con sus items
	FindByID(ctx context.Context, opportunityID, tenantID uuid.UUID) (*entity.Opportunity, error)

	// Search lista oportunidades del tenant según criteria, con total para paginación
	Search(ctx context.Context, tenantID uuid.UUID, criteria domainCriteria.Criteria) ([]*entity.Opportunity, int, error)

	// UpdateItemsBatch aplica un batch de ediciones de items con chequeo de lock
	// optimista por item. Los items sin conflicto se aplican atómicamente y los
	// totales derivados de la oportunidad se recalculan en la misma transacción.
	UpdateItemsBatch(ctx context.Context, opportunityID, tenantID uuid.UUID, updates []entity.ItemUpdate) (*entity.BatchResult, error)
}
