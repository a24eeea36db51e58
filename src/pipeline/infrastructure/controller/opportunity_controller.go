package controller

import (
	"errors"
	"log"
	"net/http"

	"pipeline/src/pipeline/application/request"
	"pipeline/src/pipeline/application/usecase"
	"pipeline/src/pipeline/domain/entity"
	domainCriteria "pipeline/src/shared/domain/criteria"
	sharedCriteria "pipeline/src/shared/infrastructure/criteria"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Campos habilitados para filtrado y ordenamiento en el listado
var opportunityAllowedFields = []string{"stage", "freight_mode", "created_at", "total_value"}

// OpportunityController maneja las peticiones HTTP para oportunidades
type OpportunityController struct {
	createOpportunityUC *usecase.CreateOpportunityUseCase
	getOpportunityUC    *usecase.GetOpportunityUseCase
	listOpportunitiesUC *usecase.ListOpportunitiesUseCase
	batchUpdateItemsUC  *usecase.BatchUpdateItemsUseCase
	criteriaHelper      *sharedCriteria.ControllerHelper
}

// NewOpportunityController crea una nueva instancia del controlador
func NewOpportunityController(
	createOpportunityUC *usecase.CreateOpportunityUseCase,
	getOpportunityUC *usecase.GetOpportunityUseCase,
	listOpportunitiesUC *usecase.ListOpportunitiesUseCase,
	batchUpdateItemsUC *usecase.BatchUpdateItemsUseCase,
) *OpportunityController {
	return &OpportunityController{
		createOpportunityUC: createOpportunityUC,
		getOpportunityUC:    getOpportunityUC,
		listOpportunitiesUC: listOpportunitiesUC,
		batchUpdateItemsUC:  batchUpdateItemsUC,
		criteriaHelper:      sharedCriteria.NewControllerHelper(),
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *OpportunityController) RegisterRoutes(router *gin.RouterGroup) {
	opportunities := router.Group("/opportunities")
	{
		opportunities.GET("", c.ListOpportunities)
		opportunities.GET("/:opportunity_id", c.GetOpportunity)
		opportunities.POST("", c.CreateOpportunity)
		opportunities.POST("/:opportunity_id/items/batch-update", c.BatchUpdateItems)
	}

	log.Println("Rutas Opportunity disponibles:")
	log.Println("  GET    /api/v1/opportunities")
	log.Println("  GET    /api/v1/opportunities/:opportunity_id")
	log.Println("  POST   /api/v1/opportunities")
	log.Println("  POST   /api/v1/opportunities/:opportunity_id/items/batch-update")
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

// CreateOpportunity maneja la creación de una oportunidad
func (c *OpportunityController) CreateOpportunity(ctx *gin.Context) {
	// 1. Validar header X-Tenant-ID
	tenantUUID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	// 2. Validar body
	var req request.CreateOpportunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	// 3. Ejecutar use case
	resp, err := c.createOpportunityUC.Execute(ctx.Request.Context(), tenantUUID, &req)
	if err != nil {
		log.Printf("Error creating opportunity: %v", err)

		// Errores de validación de dominio → 400
		if errors.Is(err, entity.ErrInvalidQuantity) ||
			errors.Is(err, entity.ErrInvalidUnitPrice) ||
			errors.Is(err, entity.ErrInvalidDiscountPercent) ||
			errors.Is(err, entity.ErrInvalidFreightMode) ||
			errors.Is(err, entity.ErrProductNameRequired) ||
			errors.Is(err, entity.ErrOpportunityMustHaveItems) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error creating opportunity",
			"details": err.Error(),
		})
		return
	}

	// 4. Responder exitosamente con 201 Created
	ctx.JSON(http.StatusCreated, resp)
}

// GetOpportunity maneja la obtención de una oportunidad por ID
func (c *OpportunityController) GetOpportunity(ctx *gin.Context) {
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

	// 3. Ejecutar use case
	resp, err := c.getOpportunityUC.Execute(ctx.Request.Context(), opportunityID, tenantUUID)
	if err != nil {
		log.Printf("Error getting opportunity: %v", err)

		if errors.Is(err, entity.ErrOpportunityNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error": "Opportunity not found",
			})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error getting opportunity",
			"details": err.Error(),
		})
		return
	}

	// 4. Responder exitosamente
	ctx.JSON(http.StatusOK, resp)
}

// ListOpportunities maneja el listado de oportunidades con criteria
func (c *OpportunityController) ListOpportunities(ctx *gin.Context) {
	// 1. Validar header X-Tenant-ID
	tenantUUID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	// 2. Construir criteria desde query parameters
	builder := c.criteriaHelper.BuildCriteriaFromQuery(ctx)
	if stage := ctx.Query("stage"); stage != "" {
		builder.WithFilter("stage", domainCriteria.OpEqual, stage)
	}
	if mode := ctx.Query("freight_mode"); mode != "" {
		builder.WithFilter("freight_mode", domainCriteria.OpEqual, mode)
	}

	criteria := c.criteriaHelper.ValidateAndSanitizeCriteria(builder.Build(), opportunityAllowedFields)

	// 3. Ejecutar use case
	resp, err := c.listOpportunitiesUC.Execute(ctx.Request.Context(), tenantUUID, criteria)
	if err != nil {
		log.Printf("Error listing opportunities: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error listing opportunities",
			"details": err.Error(),
		})
		return
	}

	// 4. Responder exitosamente
	ctx.JSON(http.StatusOK, resp)
}

// BatchUpdateItems maneja la actualización en batch de items con lock optimista
func (c *OpportunityController) BatchUpdateItems(ctx *gin.Context) {
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
	var req request.BatchUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	// 4. Ejecutar use case
	resp, err := c.batchUpdateItemsUC.Execute(ctx.Request.Context(), opportunityID, tenantUUID, &req)
	if err != nil {
		log.Printf("Error applying batch update: %v", err)

		if errors.Is(err, entity.ErrOpportunityNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error": "Opportunity not found",
			})
			return
		}
		if errors.Is(err, entity.ErrEmptyBatch) || errors.Is(err, entity.ErrItemUpdateWithoutFields) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error applying batch update",
			"details": err.Error(),
		})
		return
	}

	// 5. Responder exitosamente: los conflictos van en el body, no son error HTTP
	ctx.JSON(http.StatusOK, resp)
}
