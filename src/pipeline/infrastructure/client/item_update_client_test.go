package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pipeline/src/pipeline/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestFlushBatchSendsContractPayload(t *testing.T) {
	opportunityID := uuid.New()
	tenantID := uuid.New()
	itemID := uuid.New()
	knownTS := time.Date(2026, 8, 15, 12, 30, 0, 0, time.UTC)
	serverTS := knownTS.Add(2 * time.Second)

	var gotPayload BatchUpdatePayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		wantPath := "/api/v1/opportunities/" + opportunityID.String() + "/items/batch-update"
		if r.URL.Path != wantPath {
			t.Errorf("wrong path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Tenant-ID"); got != tenantID.String() {
			t.Errorf("wrong X-Tenant-ID: %s", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("wrong Authorization: %s", got)
		}

		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("error decoding payload: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"applied_count": 1,
			"conflicts": []map[string]interface{}{
				{"id": itemID.String(), "reason": "stale_item", "server_timestamp": serverTS.Format(time.RFC3339Nano)},
			},
		})
	}))
	defer server.Close()

	c := NewItemUpdateClientWithURL(server.URL, opportunityID, tenantID, "Bearer token-123")

	qty := 4
	price := decimal.RequireFromString("19.90")
	updates := []entity.ItemUpdate{
		{ItemID: itemID, Quantity: &qty, UnitPrice: &price, LastKnownTimestamp: &knownTS},
	}

	result, err := c.FlushBatch(context.Background(), updates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gotPayload.Items) != 1 {
		t.Fatalf("expected 1 item in payload, got %d", len(gotPayload.Items))
	}
	sent := gotPayload.Items[0]
	if sent.ID != itemID || sent.Quantity == nil || *sent.Quantity != 4 {
		t.Errorf("payload item mismatch: %+v", sent)
	}
	if sent.DiscountPercent != nil {
		t.Errorf("unchanged field should be omitted, got %v", sent.DiscountPercent)
	}
	if sent.LastKnownTimestamp == nil || !sent.LastKnownTimestamp.Equal(knownTS) {
		t.Errorf("last_known_timestamp mismatch: %v", sent.LastKnownTimestamp)
	}

	if result.AppliedCount != 1 {
		t.Errorf("expected applied_count 1, got %d", result.AppliedCount)
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(result.Conflicts))
	}
	conflict := result.Conflicts[0]
	if conflict.ItemID != itemID || conflict.Reason != entity.ConflictReasonStale {
		t.Errorf("conflict mismatch: %+v", conflict)
	}
	if conflict.ServerTimestamp == nil || !conflict.ServerTimestamp.Equal(serverTS) {
		t.Errorf("server_timestamp mismatch: %v", conflict.ServerTimestamp)
	}
}

func TestFlushBatchNonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer server.Close()

	c := NewItemUpdateClientWithURL(server.URL, uuid.New(), uuid.New(), "")

	qty := 1
	_, err := c.FlushBatch(context.Background(), []entity.ItemUpdate{{ItemID: uuid.New(), Quantity: &qty}})
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
