package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarrierQuote representa la cotización de una transportadora
type CarrierQuote struct {
	CarrierCode  string          `json:"carrier_code"`
	CarrierName  string          `json:"carrier_name"`
	FreightValue decimal.Decimal `json:"freight_value"`
	DeadlineDays int             `json:"deadline_days"`
}

// QuoteRequest representa el request de cotización hacia el gateway EDI
type QuoteRequest struct {
	OpportunityID  uuid.UUID       `json:"opportunity_id"`
	TotalWeightKg  decimal.Decimal `json:"total_weight_kg"`
	TotalValue     decimal.Decimal `json:"total_value"`
	DestinationZip string          `json:"destination_zip"`
}

// QuoteResponse representa la respuesta de cotización del gateway EDI
type QuoteResponse struct {
	Quotes []CarrierQuote `json:"quotes"`
}

// CarrierClient cliente HTTP para cotizar flete contra el gateway EDI de
// transportadoras
type CarrierClient struct {
	httpClient  *http.Client
	gatewayURL  string
	freightPath string
}

// NewCarrierClient crea una nueva instancia del cliente
func NewCarrierClient() *CarrierClient {
	gatewayURL := os.Getenv("EDI_GATEWAY_URL")
	if gatewayURL == "" {
		gatewayURL = "http://edi-gateway:8000" // Default para entorno Docker
	}

	freightPath := os.Getenv("FREIGHT_SERVICE_PATH")
	if freightPath == "" {
		freightPath = "/freight" // Default
	}

	return &CarrierClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		gatewayURL:  gatewayURL,
		freightPath: freightPath,
	}
}

// NewCarrierClientWithURL crea un cliente contra una URL explícita
func NewCarrierClientWithURL(gatewayURL string) *CarrierClient {
	c := NewCarrierClient()
	c.gatewayURL = gatewayURL
	return c
}

// RequestQuotes solicita cotizaciones de flete al gateway EDI
func (c *CarrierClient) RequestQuotes(ctx context.Context, tenantID uuid.UUID, quoteReq *QuoteRequest, authToken string) (*QuoteResponse, error) {
	url := fmt.Sprintf("%s%s/api/v1/quotes", c.gatewayURL, c.freightPath)

	body, err := json.Marshal(quoteReq)
	if err != nil {
		return nil, fmt.Errorf("error marshalling quote request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	// Headers obligatorios
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", tenantID.String())

	// Pasar Authorization si existe
	if authToken != "" {
		req.Header.Set("Authorization", authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling edi-gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edi-gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var quoteResp QuoteResponse
	if err := json.Unmarshal(respBody, &quoteResp); err != nil {
		return nil, fmt.Errorf("error unmarshalling response: %w", err)
	}

	return &quoteResp, nil
}
