package controller

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"pipeline/src/freight/application/request"
	"pipeline/src/freight/application/usecase"
	pipelineEntity "pipeline/src/pipeline/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FreightController maneja las peticiones HTTP de cotización y confirmación de flete
type FreightController struct {
	quoteFreightUC   *usecase.QuoteFreightUseCase
	confirmFreightUC *usecase.ConfirmFreightUseCase
}

// NewFreightController crea una nueva instancia del controlador
func NewFreightController(quoteFreightUC *usecase.QuoteFreightUseCase, confirmFreightUC *usecase.ConfirmFreightUseCase) *FreightController {
	return &FreightController{
		quoteFreightUC:   quoteFreightUC,
		confirmFreightUC: confirmFreightUC,
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *FreightController) RegisterRoutes(router *gin.RouterGroup) {
	freight := router.Group("/opportunities/:opportunity_id/freight")
	{
		freight.POST("/quote", c.QuoteFreight)
		freight.POST("/confirm", c.ConfirmFreight)
	}

	log.Println("Rutas Freight disponibles:")
	log.Println("  POST   /api/v1/opportunities/:opportunity_id/freight/quote")
	log.Println("  POST   /api/v1/opportunities/:opportunity_id/freight/confirm")
}

// tenantFromHeader valida y parsea el header X-Tenant-ID (OBLIGATORIO)
func tenantFromHeader(ctx *gin.Context) (uuid.UUID, bool) {
	tenantID := ctx.GetHeader("X-Tenant-ID")
	if tenantID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "X-Tenant-ID header is required",
		})
		return uuid.Nil, false
	}

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid X-Tenant-ID format",
		})
		return uuid.Nil, false
	}

	return tenantUUID, true
}

// QuoteFreight solicita cotizaciones de flete a los transportistas
func (c *FreightController) QuoteFreight(ctx *gin.Context) {
	// 1. Validar header X-Tenant-ID
	tenantUUID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	// 2. Obtener opportunity_id del path
	opportunityID, err := uuid.Parse(ctx.Param("opportunity_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid opportunity_id format",
		})
		return
	}

	// 3. Validar body
	var req request.QuoteFreightRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	// 4. Ejecutar use case (propaga el token del usuario al gateway)
	authToken := ctx.GetHeader("Authorization")
	resp, err := c.quoteFreightUC.Execute(ctx.Request.Context(), opportunityID, tenantUUID, &req, authToken)
	if err != nil {
		log.Printf("Error quoting freight: %v", err)

		if errors.Is(err, pipelineEntity.ErrOpportunityNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error": "Opportunity not found",
			})
			return
		}

		// Falla del gateway de transportistas → 502
		if strings.Contains(err.Error(), "carrier quotes") {
			ctx.JSON(http.StatusBadGateway, gin.H{
				"error":   "Error requesting carrier quotes",
				"details": err.Error(),
			})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error quoting freight",
			"details": err.Error(),
		})
		return
	}

	// 5. Responder exitosamente
	ctx.JSON(http.StatusOK, resp)
}

// ConfirmFreight confirma el flete y prorratea el total entre los items
func (c *FreightController) ConfirmFreight(ctx *gin.Context) {
	// 1. Validar header X-Tenant-ID
	tenantUUID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	// 2. Obtener opportunity_id del path
	opportunityID, err := uuid.Parse(ctx.Param("opportunity_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid opportunity_id format",
		})
		return
	}

	// 3. Validar body
	var req request.ConfirmFreightRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	// 4. Ejecutar use case
	resp, err := c.confirmFreightUC.Execute(ctx.Request.Context(), opportunityID, tenantUUID, &req)
	if err != nil {
		log.Printf("Error confirming freight: %v", err)

		if errors.Is(err, pipelineEntity.ErrOpportunityNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error": "Opportunity not found",
			})
			return
		}
		if errors.Is(err, usecase.ErrInvalidTotalFreight) || errors.Is(err, usecase.ErrCarrierNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, usecase.ErrFreightNotProratable) || errors.Is(err, usecase.ErrNoProrationBasis) {
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error confirming freight",
			"details": err.Error(),
		})
		return
	}

	// 5. Responder exitosamente
	ctx.JSON(http.StatusOK, resp)
}
