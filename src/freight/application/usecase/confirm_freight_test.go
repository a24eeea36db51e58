package usecase

import (
	"context"
	"errors"
	"testing"

	"pipeline/src/freight/application/request"
	"pipeline/src/freight/infrastructure/cache"
	pipelineEntity "pipeline/src/pipeline/domain/entity"
	"pipeline/src/shared/domain/criteria"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeOpportunityRepo devuelve una oportunidad fija
type fakeOpportunityRepo struct {
	opportunity *pipelineEntity.Opportunity
	err         error
}

func (f *fakeOpportunityRepo) Save(ctx context.Context, o *pipelineEntity.Opportunity) error {
	return nil
}

func (f *fakeOpportunityRepo) FindByID(ctx context.Context, opportunityID, tenantID uuid.UUID) (*pipelineEntity.Opportunity, error) {
	return f.opportunity, f.err
}

func (f *fakeOpportunityRepo) Search(ctx context.Context, tenantID uuid.UUID, c criteria.Criteria) ([]*pipelineEntity.Opportunity, int, error) {
	return nil, 0, nil
}

func (f *fakeOpportunityRepo) UpdateItemsBatch(ctx context.Context, opportunityID, tenantID uuid.UUID, updates []pipelineEntity.ItemUpdate) (*pipelineEntity.BatchResult, error) {
	return &pipelineEntity.BatchResult{}, nil
}

// fakeAllocationRepo captura las asignaciones persistidas
type fakeAllocationRepo struct {
	gotCarrierID    uuid.UUID
	gotTotalFreight decimal.Decimal
	gotAllocations  map[uuid.UUID]decimal.Decimal
	err             error
}

func (f *fakeAllocationRepo) SaveAllocations(ctx context.Context, opportunityID, tenantID, carrierID uuid.UUID, totalFreight decimal.Decimal, allocations map[uuid.UUID]decimal.Decimal) error {
	f.gotCarrierID = carrierID
	f.gotTotalFreight = totalFreight
	f.gotAllocations = allocations
	return f.err
}

// fakePublisher captura los eventos publicados
type fakePublisher struct {
	events []string
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, eventType, key string, payload interface{}) error {
	f.events = append(f.events, eventType)
	return f.err
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cifOpportunity(t *testing.T) *pipelineEntity.Opportunity {
	t.Helper()

	itemA, err := pipelineEntity.NewLineItem(uuid.Nil, "SKU-A", "Producto A", 1, mustDecimal("100.00"), decimal.Zero)
	if err != nil {
		t.Fatal(err)
	}
	itemB, err := pipelineEntity.NewLineItem(uuid.Nil, "SKU-B", "Producto B", 3, mustDecimal("100.00"), decimal.Zero)
	if err != nil {
		t.Fatal(err)
	}

	opportunity, err := pipelineEntity.NewOpportunity(uuid.New(), "Venta mayorista", pipelineEntity.FreightCIF, []pipelineEntity.LineItem{*itemA, *itemB})
	if err != nil {
		t.Fatal(err)
	}
	return opportunity
}

func TestConfirmFreightProratesAndPersists(t *testing.T) {
	opportunity := cifOpportunity(t)
	allocRepo := &fakeAllocationRepo{}
	publisher := &fakePublisher{}
	uc := NewConfirmFreightUseCase(&fakeOpportunityRepo{opportunity: opportunity}, allocRepo, nil, publisher, nil)

	carrierID := uuid.New()
	req := &request.ConfirmFreightRequest{
		CarrierID:    carrierID,
		TotalFreight: mustDecimal("40.00"),
	}

	resp, err := uc.Execute(context.Background(), opportunity.ID, opportunity.TenantID, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 100 vs 300 de valor: 10.00 y 30.00 de flete
	if allocRepo.gotCarrierID != carrierID {
		t.Errorf("carrier not persisted: %s", allocRepo.gotCarrierID)
	}
	if !allocRepo.gotAllocations[opportunity.Items[0].ID].Equal(mustDecimal("10.00")) {
		t.Errorf("item A allocation: expected 10.00, got %s", allocRepo.gotAllocations[opportunity.Items[0].ID])
	}
	if !allocRepo.gotAllocations[opportunity.Items[1].ID].Equal(mustDecimal("30.00")) {
		t.Errorf("item B allocation: expected 30.00, got %s", allocRepo.gotAllocations[opportunity.Items[1].ID])
	}

	if len(resp.Allocations) != 2 {
		t.Fatalf("expected 2 allocations in response, got %d", len(resp.Allocations))
	}
	if !resp.TotalFreight.Equal(mustDecimal("40.00")) {
		t.Errorf("response total freight: %s", resp.TotalFreight)
	}

	if len(publisher.events) != 1 || publisher.events[0] != "pipeline.freight.confirmed" {
		t.Errorf("expected pipeline.freight.confirmed published, got %v", publisher.events)
	}
}

func TestConfirmFreightRejectsFOB(t *testing.T) {
	opportunity := cifOpportunity(t)
	opportunity.FreightMode = pipelineEntity.FreightFOB
	uc := NewConfirmFreightUseCase(&fakeOpportunityRepo{opportunity: opportunity}, &fakeAllocationRepo{}, nil, nil, nil)

	req := &request.ConfirmFreightRequest{CarrierID: uuid.New(), TotalFreight: mustDecimal("10.00")}
	_, err := uc.Execute(context.Background(), opportunity.ID, opportunity.TenantID, req)
	if !errors.Is(err, ErrFreightNotProratable) {
		t.Fatalf("expected ErrFreightNotProratable, got %v", err)
	}
}

func TestConfirmFreightRejectsNonPositiveTotal(t *testing.T) {
	uc := NewConfirmFreightUseCase(&fakeOpportunityRepo{}, &fakeAllocationRepo{}, nil, nil, nil)

	req := &request.ConfirmFreightRequest{CarrierID: uuid.New(), TotalFreight: decimal.Zero}
	_, err := uc.Execute(context.Background(), uuid.New(), uuid.New(), req)
	if !errors.Is(err, ErrInvalidTotalFreight) {
		t.Fatalf("expected ErrInvalidTotalFreight, got %v", err)
	}
}

func TestConfirmFreightUnknownCarrier(t *testing.T) {
	// Cache vacío: ningún carrier registrado
	emptyCache := cache.NewCarrierCache()
	uc := NewConfirmFreightUseCase(&fakeOpportunityRepo{}, &fakeAllocationRepo{}, emptyCache, nil, nil)

	req := &request.ConfirmFreightRequest{CarrierID: uuid.New(), TotalFreight: mustDecimal("10.00")}
	_, err := uc.Execute(context.Background(), uuid.New(), uuid.New(), req)
	if !errors.Is(err, ErrCarrierNotFound) {
		t.Fatalf("expected ErrCarrierNotFound, got %v", err)
	}
}

func TestConfirmFreightOpportunityNotFound(t *testing.T) {
	repo := &fakeOpportunityRepo{err: pipelineEntity.ErrOpportunityNotFound}
	uc := NewConfirmFreightUseCase(repo, &fakeAllocationRepo{}, nil, nil, nil)

	req := &request.ConfirmFreightRequest{CarrierID: uuid.New(), TotalFreight: mustDecimal("10.00")}
	_, err := uc.Execute(context.Background(), uuid.New(), uuid.New(), req)
	if !errors.Is(err, pipelineEntity.ErrOpportunityNotFound) {
		t.Fatalf("expected ErrOpportunityNotFound, got %v", err)
	}
}

func TestConfirmFreightInfraFailureIsNotNotFound(t *testing.T) {
	infraErr := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	repo := &fakeOpportunityRepo{err: infraErr}
	uc := NewConfirmFreightUseCase(repo, &fakeAllocationRepo{}, nil, nil, nil)

	req := &request.ConfirmFreightRequest{CarrierID: uuid.New(), TotalFreight: mustDecimal("10.00")}
	_, err := uc.Execute(context.Background(), uuid.New(), uuid.New(), req)
	if errors.Is(err, pipelineEntity.ErrOpportunityNotFound) {
		t.Fatal("infrastructure failure must not be reported as not-found")
	}
	if !errors.Is(err, infraErr) {
		t.Fatalf("expected the repository error propagated, got %v", err)
	}
}

func TestConfirmFreightAllocationNotFoundKeepsSentinel(t *testing.T) {
	// La oportunidad desaparece entre el load y el write (carrera con delete):
	// el sentinel del repositorio de asignaciones debe sobrevivir el wrapping
	opportunity := cifOpportunity(t)
	allocRepo := &fakeAllocationRepo{err: pipelineEntity.ErrOpportunityNotFound}
	uc := NewConfirmFreightUseCase(&fakeOpportunityRepo{opportunity: opportunity}, allocRepo, nil, nil, nil)

	req := &request.ConfirmFreightRequest{CarrierID: uuid.New(), TotalFreight: mustDecimal("10.00")}
	_, err := uc.Execute(context.Background(), opportunity.ID, opportunity.TenantID, req)
	if !errors.Is(err, pipelineEntity.ErrOpportunityNotFound) {
		t.Fatalf("expected ErrOpportunityNotFound via errors.Is, got %v", err)
	}
}

func TestConfirmFreightPublishFailureDoesNotFail(t *testing.T) {
	opportunity := cifOpportunity(t)
	publisher := &fakePublisher{err: errors.New("broker down")}
	uc := NewConfirmFreightUseCase(&fakeOpportunityRepo{opportunity: opportunity}, &fakeAllocationRepo{}, nil, publisher, nil)

	req := &request.ConfirmFreightRequest{CarrierID: uuid.New(), TotalFreight: mustDecimal("10.00")}
	if _, err := uc.Execute(context.Background(), opportunity.ID, opportunity.TenantID, req); err != nil {
		t.Fatalf("publish failure must not fail the confirmation: %v", err)
	}
}
