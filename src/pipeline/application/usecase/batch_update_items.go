package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"pipeline/src/pipeline/application/request"
	"pipeline/src/pipeline/application/response"
	"pipeline/src/pipeline/domain/entity"
	"pipeline/src/pipeline/domain/port"
	"pipeline/src/shared/infrastructure/metrics"

	"github.com/google/uuid"
)

// BatchUpdateItemsUseCase caso de uso para aplicar un batch de ediciones de
// items con lock optimista por item
type BatchUpdateItemsUseCase struct {
	opportunityRepo port.OpportunityRepository
	publisher       port.EventPublisher
	metrics         *metrics.Registry
}

// NewBatchUpdateItemsUseCase crea una nueva instancia del caso de uso
func NewBatchUpdateItemsUseCase(
	opportunityRepo port.OpportunityRepository,
	publisher port.EventPublisher,
	reg *metrics.Registry,
) *BatchUpdateItemsUseCase {
	return &BatchUpdateItemsUseCase{
		opportunityRepo: opportunityRepo,
		publisher:       publisher,
		metrics:         reg,
	}
}

// Execute aplica el batch: los items sin conflicto se escriben atómicamente,
// los conflictos se reportan por item sin abortar el resto
func (uc *BatchUpdateItemsUseCase) Execute(ctx context.Context, opportunityID, tenantID uuid.UUID, req *request.BatchUpdateRequest) (*response.BatchUpdateResponse, error) {
	// 1. Traducir el request a actualizaciones de dominio
	updates := make([]entity.ItemUpdate, 0, len(req.Items))
	for _, item := range req.Items {
		update := entity.ItemUpdate{
			ItemID:             item.ID,
			Quantity:           item.Quantity,
			DiscountPercent:    item.DiscountPercent,
			UnitPrice:          item.UnitPrice,
			LastKnownTimestamp: item.LastKnownTimestamp,
		}
		if update.IsEmpty() {
			return nil, entity.ErrItemUpdateWithoutFields
		}
		updates = append(updates, update)
	}
	if len(updates) == 0 {
		return nil, entity.ErrEmptyBatch
	}

	// 2. Aplicar el batch (atómico para los items sin conflicto)
	start := time.Now()
	result, err := uc.opportunityRepo.UpdateItemsBatch(ctx, opportunityID, tenantID, updates)
	if err != nil {
		return nil, fmt.Errorf("error applying batch update: %w", err)
	}

	// 3. Registrar métricas
	if uc.metrics != nil {
		uc.metrics.BatchUpdates.Inc()
		uc.metrics.ItemsApplied.Add(float64(result.AppliedCount))
		uc.metrics.ItemConflicts.Add(float64(len(result.Conflicts)))
		uc.metrics.BatchLatencySec.Observe(time.Since(start).Seconds())
	}

	// 4. Publicar evento si hubo items aplicados.
	// Log error pero NO fallar la operación (el batch ya fue aplicado)
	if uc.publisher != nil && result.AppliedCount > 0 {
		payload := map[string]interface{}{
			"opportunity_id": opportunityID.String(),
			"tenant_id":      tenantID.String(),
			"applied_count":  result.AppliedCount,
			"conflict_count": len(result.Conflicts),
		}
		if err := uc.publisher.Publish(ctx, port.EventItemsUpdated, opportunityID.String(), payload); err != nil {
			log.Printf("WARNING: Failed to publish %s: %v", port.EventItemsUpdated, err)
		} else if uc.metrics != nil {
			uc.metrics.EventsPublished.Inc()
		}
	}

	return response.FromBatchResult(result), nil
}
