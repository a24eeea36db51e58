package usecase

import (
	"context"
	"fmt"

	"pipeline/src/freight/application/request"
	"pipeline/src/freight/infrastructure/client"
	pipelinePort "pipeline/src/pipeline/domain/port"

	"github.com/google/uuid"
)

// QuoteFreightUseCase caso de uso para cotizar flete con los transportistas
// a través del gateway EDI
type QuoteFreightUseCase struct {
	opportunityRepo pipelinePort.OpportunityRepository
	carrierClient   *client.CarrierClient
}

// NewQuoteFreightUseCase crea una nueva instancia del caso de uso
func NewQuoteFreightUseCase(opportunityRepo pipelinePort.OpportunityRepository, carrierClient *client.CarrierClient) *QuoteFreightUseCase {
	return &QuoteFreightUseCase{
		opportunityRepo: opportunityRepo,
		carrierClient:   carrierClient,
	}
}

// Execute cotiza el flete de una oportunidad contra los transportistas activos
func (uc *QuoteFreightUseCase) Execute(ctx context.Context, opportunityID, tenantID uuid.UUID, req *request.QuoteFreightRequest, authToken string) (*client.QuoteResponse, error) {
	// 1. Verificar que la oportunidad existe y obtener su valor total.
	// Errores de infraestructura se propagan sin colapsar a not-found
	opportunity, err := uc.opportunityRepo.FindByID(ctx, opportunityID, tenantID)
	if err != nil {
		return nil, err
	}

	// 2. Solicitar cotizaciones al gateway
	quoteReq := &client.QuoteRequest{
		OpportunityID:  opportunityID,
		TotalWeightKg:  req.TotalWeightKg,
		TotalValue:     opportunity.TotalValue,
		DestinationZip: req.DestinationZip,
	}

	quotes, err := uc.carrierClient.RequestQuotes(ctx, tenantID, quoteReq, authToken)
	if err != nil {
		return nil, fmt.Errorf("error requesting carrier quotes: %w", err)
	}

	return quotes, nil
}
