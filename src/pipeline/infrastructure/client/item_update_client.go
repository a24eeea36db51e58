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

	"pipeline/src/pipeline/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchItemPayload representa un item dentro del request de batch update
type BatchItemPayload struct {
	ID                 uuid.UUID        `json:"id"`
	Quantity           *int             `json:"quantity,omitempty"`
	DiscountPercent    *decimal.Decimal `json:"discount_percent,omitempty"`
	UnitPrice          *decimal.Decimal `json:"unit_price,omitempty"`
	LastKnownTimestamp *time.Time       `json:"last_known_timestamp,omitempty"`
}

// BatchUpdatePayload representa el request del endpoint de batch update
type BatchUpdatePayload struct {
	Items []BatchItemPayload `json:"items"`
}

// BatchUpdateResult representa la respuesta del endpoint de batch update
type BatchUpdateResult struct {
	AppliedCount int `json:"applied_count"`
	Conflicts    []struct {
		ID              uuid.UUID  `json:"id"`
		Reason          string     `json:"reason"`
		ServerTimestamp *time.Time `json:"server_timestamp,omitempty"`
	} `json:"conflicts"`
}

// ItemUpdateClient cliente HTTP del endpoint de batch update de items.
// Implementa batcher.Flusher para una oportunidad y tenant fijos.
type ItemUpdateClient struct {
	httpClient    *http.Client
	baseURL       string
	opportunityID uuid.UUID
	tenantID      uuid.UUID
	authToken     string
}

// NewItemUpdateClient crea una nueva instancia del cliente
func NewItemUpdateClient(opportunityID, tenantID uuid.UUID, authToken string) *ItemUpdateClient {
	baseURL := os.Getenv("PIPELINE_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080" // Default para desarrollo local
	}

	return &ItemUpdateClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:       baseURL,
		opportunityID: opportunityID,
		tenantID:      tenantID,
		authToken:     authToken,
	}
}

// NewItemUpdateClientWithURL crea un cliente contra una URL explícita
func NewItemUpdateClientWithURL(baseURL string, opportunityID, tenantID uuid.UUID, authToken string) *ItemUpdateClient {
	c := NewItemUpdateClient(opportunityID, tenantID, authToken)
	c.baseURL = baseURL
	return c
}

// FlushBatch envía el batch de actualizaciones al endpoint y traduce la
// respuesta a un BatchResult de dominio
func (c *ItemUpdateClient) FlushBatch(ctx context.Context, updates []entity.ItemUpdate) (*entity.BatchResult, error) {
	// Construir payload
	payload := BatchUpdatePayload{
		Items: make([]BatchItemPayload, 0, len(updates)),
	}
	for _, up := range updates {
		payload.Items = append(payload.Items, BatchItemPayload{
			ID:                 up.ItemID,
			Quantity:           up.Quantity,
			DiscountPercent:    up.DiscountPercent,
			UnitPrice:          up.UnitPrice,
			LastKnownTimestamp: up.LastKnownTimestamp,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshalling batch payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/opportunities/%s/items/batch-update", c.baseURL, c.opportunityID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	// Headers obligatorios
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", c.tenantID.String())

	// Pasar Authorization si existe
	if c.authToken != "" {
		req.Header.Set("Authorization", c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling pipeline-service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pipeline-service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result BatchUpdateResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("error unmarshalling response: %w", err)
	}

	// Traducir a entidad de dominio
	batchResult := &entity.BatchResult{
		AppliedCount: result.AppliedCount,
	}
	for _, conflict := range result.Conflicts {
		batchResult.Conflicts = append(batchResult.Conflicts, entity.ItemConflict{
			ItemID:          conflict.ID,
			Reason:          conflict.Reason,
			ServerTimestamp: conflict.ServerTimestamp,
		})
	}

	return batchResult, nil
}
