package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pipeline/src/pipeline/application/usecase"
	"pipeline/src/pipeline/domain/entity"
	"pipeline/src/shared/domain/criteria"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// stubOpportunityRepo implementa port.OpportunityRepository para tests de rutas
type stubOpportunityRepo struct {
	batchResult *entity.BatchResult
	batchErr    error
}

func (s *stubOpportunityRepo) Save(ctx context.Context, o *entity.Opportunity) error {
	return nil
}

func (s *stubOpportunityRepo) FindByID(ctx context.Context, opportunityID, tenantID uuid.UUID) (*entity.Opportunity, error) {
	return nil, entity.ErrOpportunityNotFound
}

func (s *stubOpportunityRepo) Search(ctx context.Context, tenantID uuid.UUID, c criteria.Criteria) ([]*entity.Opportunity, int, error) {
	return nil, 0, nil
}

func (s *stubOpportunityRepo) UpdateItemsBatch(ctx context.Context, opportunityID, tenantID uuid.UUID, updates []entity.ItemUpdate) (*entity.BatchResult, error) {
	return s.batchResult, s.batchErr
}

func newTestRouter(repo *stubOpportunityRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	ctrl := NewOpportunityController(
		usecase.NewCreateOpportunityUseCase(repo),
		usecase.NewGetOpportunityUseCase(repo),
		usecase.NewListOpportunitiesUseCase(repo),
		usecase.NewBatchUpdateItemsUseCase(repo, nil, nil),
	)
	ctrl.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestBatchUpdateRequiresTenantHeader(t *testing.T) {
	router := newTestRouter(&stubOpportunityRepo{})

	body := `{"items":[{"id":"` + uuid.New().String() + `","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/opportunities/"+uuid.New().String()+"/items/batch-update", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without X-Tenant-ID, got %d", w.Code)
	}
}

func TestBatchUpdateConflictsReturnedIn200Body(t *testing.T) {
	serverTS := time.Date(2026, 8, 20, 15, 4, 5, 0, time.UTC)
	conflicted := uuid.New()
	repo := &stubOpportunityRepo{
		batchResult: &entity.BatchResult{
			AppliedCount: 1,
			Conflicts: []entity.ItemConflict{
				{ItemID: conflicted, Reason: entity.ConflictReasonStale, ServerTimestamp: &serverTS},
			},
		},
	}
	router := newTestRouter(repo)

	body := `{"items":[{"id":"` + uuid.New().String() + `","quantity":2},{"id":"` + conflicted.String() + `","unit_price":"15.90"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/opportunities/"+uuid.New().String()+"/items/batch-update", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", uuid.New().String())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("conflicts are not an HTTP error, expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AppliedCount int `json:"applied_count"`
		Conflicts    []struct {
			ID     uuid.UUID `json:"id"`
			Reason string    `json:"reason"`
		} `json:"conflicts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.AppliedCount != 1 {
		t.Errorf("expected applied_count 1, got %d", resp.AppliedCount)
	}
	if len(resp.Conflicts) != 1 || resp.Conflicts[0].ID != conflicted || resp.Conflicts[0].Reason != "stale_item" {
		t.Errorf("conflict not surfaced: %+v", resp.Conflicts)
	}
}

func TestBatchUpdateUnknownOpportunityIs404(t *testing.T) {
	repo := &stubOpportunityRepo{batchErr: entity.ErrOpportunityNotFound}
	router := newTestRouter(repo)

	body := `{"items":[{"id":"` + uuid.New().String() + `","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/opportunities/"+uuid.New().String()+"/items/batch-update", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", uuid.New().String())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetOpportunityInvalidIDIs400(t *testing.T) {
	router := newTestRouter(&stubOpportunityRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/opportunities/not-a-uuid", nil)
	req.Header.Set("X-Tenant-ID", uuid.New().String())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", w.Code)
	}
}
