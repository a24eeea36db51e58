package response

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyReportResponse representa el reporte diario del pipeline
type DailyReportResponse struct {
	Date              string          `json:"date"`
	OpportunitiesNew  int             `json:"opportunities_new"`
	OpportunitiesWon  int             `json:"opportunities_won"`
	OpportunitiesLost int             `json:"opportunities_lost"`
	PipelineValue     decimal.Decimal `json:"pipeline_value"`
	FreightConfirmed  decimal.Decimal `json:"freight_confirmed"`
	FirstActivityAt   *time.Time      `json:"first_activity_at,omitempty"`
	LastActivityAt    *time.Time      `json:"last_activity_at,omitempty"`
}
