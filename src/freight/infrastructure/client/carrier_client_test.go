package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestRequestQuotesContract(t *testing.T) {
	tenantID := uuid.New()
	opportunityID := uuid.New()

	var gotReq QuoteRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/freight/api/v1/quotes" {
			t.Errorf("wrong path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Tenant-ID"); got != tenantID.String() {
			t.Errorf("wrong X-Tenant-ID: %s", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("error decoding request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(QuoteResponse{
			Quotes: []CarrierQuote{
				{CarrierCode: "TRX", CarrierName: "TransExpress", FreightValue: decimal.RequireFromString("120.50"), DeadlineDays: 3},
				{CarrierCode: "LOG", CarrierName: "Logisur", FreightValue: decimal.RequireFromString("98.00"), DeadlineDays: 7},
			},
		})
	}))
	defer server.Close()

	c := NewCarrierClientWithURL(server.URL)

	req := &QuoteRequest{
		OpportunityID:  opportunityID,
		TotalWeightKg:  decimal.RequireFromString("12.5"),
		TotalValue:     decimal.RequireFromString("1500.00"),
		DestinationZip: "11300",
	}

	resp, err := c.RequestQuotes(context.Background(), tenantID, req, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotReq.OpportunityID != opportunityID || gotReq.DestinationZip != "11300" {
		t.Errorf("request payload mismatch: %+v", gotReq)
	}
	if len(resp.Quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(resp.Quotes))
	}
	if resp.Quotes[0].CarrierCode != "TRX" || !resp.Quotes[0].FreightValue.Equal(decimal.RequireFromString("120.50")) {
		t.Errorf("quote mismatch: %+v", resp.Quotes[0])
	}
}

func TestRequestQuotesGatewayErrorIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewCarrierClientWithURL(server.URL)
	_, err := c.RequestQuotes(context.Background(), uuid.New(), &QuoteRequest{}, "")
	if err == nil {
		t.Fatal("expected error on gateway failure")
	}
}
