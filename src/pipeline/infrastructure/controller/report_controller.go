package controller

import (
	"log"
	"net/http"
	"strings"

	"pipeline/src/pipeline/application/usecase"

	"github.com/gin-gonic/gin"
)

// ReportController maneja las peticiones HTTP para reportes
type ReportController struct {
	dailyReportUC *usecase.DailyReportUseCase
}

// NewReportController crea una nueva instancia del controlador
func NewReportController(dailyReportUC *usecase.DailyReportUseCase) *ReportController {
	return &ReportController{
		dailyReportUC: dailyReportUC,
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *ReportController) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/daily", c.DailyReport)
	}

	log.Println("Rutas Report disponibles:")
	log.Println("  GET    /api/v1/reports/daily?date=YYYY-MM-DD")
}

// DailyReport maneja el reporte diario del pipeline
func (c *ReportController) DailyReport(ctx *gin.Context) {
	// 1. Validar header X-Tenant-ID
	tenantUUID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	// 2. Leer query parameter 'date' (OBLIGATORIO)
	date := ctx.Query("date")
	if date == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "date query parameter is required (format: YYYY-MM-DD)",
		})
		return
	}

	// 3. Ejecutar use case
	resp, err := c.dailyReportUC.Execute(ctx.Request.Context(), tenantUUID, date)
	if err != nil {
		log.Printf("Error generating daily report: %v", err)

		// Si es error de formato de fecha → 400
		if strings.Contains(err.Error(), "invalid date format") {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid date format",
				"details": err.Error(),
			})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error generating daily report",
			"details": err.Error(),
		})
		return
	}

	// 4. Responder exitosamente
	ctx.JSON(http.StatusOK, resp)
}
