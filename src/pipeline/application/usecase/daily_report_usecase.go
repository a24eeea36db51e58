package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pipeline/src/pipeline/application/response"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyReportUseCase caso de uso para el reporte diario del pipeline
type DailyReportUseCase struct {
	db *sql.DB
}

// NewDailyReportUseCase crea una nueva instancia del caso de uso
func NewDailyReportUseCase(db *sql.DB) *DailyReportUseCase {
	return &DailyReportUseCase{
		db: db,
	}
}

// Execute genera el reporte para una fecha específica con una sola
// query de agregación sobre las oportunidades del día.
func (uc *DailyReportUseCase) Execute(ctx context.Context, tenantID uuid.UUID, date string) (*response.DailyReportResponse, error) {
	// 1. Validar formato de fecha (YYYY-MM-DD)
	parsedDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date format, expected YYYY-MM-DD: %w", err)
	}

	// 2. Calcular rango [from, to) - NO usar DATE(created_at)
	// Importante: usar >= from AND < to para aprovechar índice
	from := parsedDate
	to := parsedDate.AddDate(0, 0, 1)

	// 3. Query de oportunidades creadas en el día (agregaciones)
	queryOpps := `
		SELECT
			COUNT(*) as new_count,
			COUNT(*) FILTER (WHERE stage = 'WON') as won_count,
			COUNT(*) FILTER (WHERE stage = 'LOST') as lost_count,
			COALESCE(SUM(total_value), 0) as pipeline_value,
			COALESCE(SUM(total_freight), 0) as freight_confirmed,
			MIN(created_at) as first_activity,
			MAX(created_at) as last_activity
		FROM opportunities
		WHERE tenant_id = $1
			AND created_at >= $2
			AND created_at < $3
	`

	var newCount, wonCount, lostCount int
	var pipelineValue, freightConfirmed decimal.Decimal
	var firstActivity, lastActivity sql.NullTime

	err = uc.db.QueryRowContext(ctx, queryOpps, tenantID, from, to).Scan(
		&newCount,
		&wonCount,
		&lostCount,
		&pipelineValue,
		&freightConfirmed,
		&firstActivity,
		&lastActivity,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying opportunities: %w", err)
	}

	// 4. Construir response
	resp := &response.DailyReportResponse{
		Date:              date,
		OpportunitiesNew:  newCount,
		OpportunitiesWon:  wonCount,
		OpportunitiesLost: lostCount,
		PipelineValue:     pipelineValue,
		FreightConfirmed:  freightConfirmed,
	}

	// Agregar timestamps solo si existe actividad
	if firstActivity.Valid {
		resp.FirstActivityAt = &firstActivity.Time
	}
	if lastActivity.Valid {
		resp.LastActivityAt = &lastActivity.Time
	}

	return resp, nil
}
