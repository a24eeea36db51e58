package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pipeline/src/freight/application/request"
	"pipeline/src/freight/application/response"
	freightPort "pipeline/src/freight/domain/port"
	"pipeline/src/freight/domain/service"
	"pipeline/src/freight/infrastructure/cache"
	pipelineEntity "pipeline/src/pipeline/domain/entity"
	pipelinePort "pipeline/src/pipeline/domain/port"
	"pipeline/src/shared/infrastructure/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrFreightNotProratable = errors.New("freight proration only applies to CIF opportunities")
	ErrInvalidTotalFreight  = errors.New("total_freight must be greater than 0")
	ErrNoProrationBasis     = errors.New("opportunity has no items with value to prorate against")
	ErrCarrierNotFound      = errors.New("carrier not found")
)

// ConfirmFreightUseCase caso de uso para confirmar el flete de una oportunidad.
// Corre el prorrateo una sola vez por confirmación (no pasa por el camino de
// debounce de ediciones) y persiste las asignaciones por item.
type ConfirmFreightUseCase struct {
	opportunityRepo pipelinePort.OpportunityRepository
	allocationRepo  freightPort.AllocationRepository
	carrierCache    *cache.CarrierCache
	publisher       pipelinePort.EventPublisher
	metrics         *metrics.Registry
}

// NewConfirmFreightUseCase crea una nueva instancia del caso de uso
func NewConfirmFreightUseCase(
	opportunityRepo pipelinePort.OpportunityRepository,
	allocationRepo freightPort.AllocationRepository,
	carrierCache *cache.CarrierCache,
	publisher pipelinePort.EventPublisher,
	reg *metrics.Registry,
) *ConfirmFreightUseCase {
	return &ConfirmFreightUseCase{
		opportunityRepo: opportunityRepo,
		allocationRepo:  allocationRepo,
		carrierCache:    carrierCache,
		publisher:       publisher,
		metrics:         reg,
	}
}

// Execute confirma el flete: prorratea el total entre los items por valor y
// persiste las asignaciones atómicamente
func (uc *ConfirmFreightUseCase) Execute(ctx context.Context, opportunityID, tenantID uuid.UUID, req *request.ConfirmFreightRequest) (*response.ConfirmFreightResponse, error) {
	// 1. Validaciones básicas
	if req.TotalFreight.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidTotalFreight
	}
	if uc.carrierCache != nil {
		if _, ok := uc.carrierCache.Get(req.CarrierID); !ok {
			return nil, ErrCarrierNotFound
		}
	}

	// 2. Cargar la oportunidad con sus items (load aggregate).
	// El repositorio distingue not-found de fallas de infraestructura
	opportunity, err := uc.opportunityRepo.FindByID(ctx, opportunityID, tenantID)
	if err != nil {
		return nil, err
	}

	// 3. Solo las oportunidades CIF prorratean flete
	if opportunity.FreightMode != pipelineEntity.FreightCIF {
		return nil, ErrFreightNotProratable
	}

	// 4. Prorratear por valor de item
	itemValues := make([]service.ItemValue, 0, len(opportunity.Items))
	for i := range opportunity.Items {
		item := &opportunity.Items[i]
		itemValues = append(itemValues, service.ItemValue{
			ID:    item.ID,
			Value: item.NetValue(),
		})
	}

	allocations := service.ProrateFreight(itemValues, req.TotalFreight)
	if len(allocations) == 0 {
		return nil, ErrNoProrationBasis
	}

	// 5. Persistir asignaciones (atómico)
	err = uc.allocationRepo.SaveAllocations(ctx, opportunityID, tenantID, req.CarrierID, req.TotalFreight, allocations)
	if err != nil {
		return nil, fmt.Errorf("error saving freight allocations: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.FreightProrations.Inc()
	}

	// 6. Publicar evento de flete confirmado.
	// Log error pero NO fallar la operación (las asignaciones ya se guardaron)
	if uc.publisher != nil {
		payload := map[string]interface{}{
			"opportunity_id": opportunityID.String(),
			"tenant_id":      tenantID.String(),
			"carrier_id":     req.CarrierID.String(),
			"total_freight":  req.TotalFreight.String(),
			"item_count":     len(allocations),
		}
		if err := uc.publisher.Publish(ctx, pipelinePort.EventFreightConfirmed, opportunityID.String(), payload); err != nil {
			log.Printf("WARNING: Failed to publish %s: %v", pipelinePort.EventFreightConfirmed, err)
		} else if uc.metrics != nil {
			uc.metrics.EventsPublished.Inc()
		}
	}

	// 7. Construir response con las asignaciones en orden de item
	resp := &response.ConfirmFreightResponse{
		OpportunityID: opportunityID,
		CarrierID:     req.CarrierID,
		TotalFreight:  req.TotalFreight,
	}
	if uc.carrierCache != nil {
		resp.CarrierName = uc.carrierCache.GetName(req.CarrierID)
	}
	for i := range opportunity.Items {
		itemID := opportunity.Items[i].ID
		if allocated, ok := allocations[itemID]; ok {
			resp.Allocations = append(resp.Allocations, response.ItemAllocationResponse{
				ItemID:           itemID,
				AllocatedFreight: allocated,
			})
		}
	}

	return resp, nil
}
