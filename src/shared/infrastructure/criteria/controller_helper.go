package criteria

import (
	domainCriteria "pipeline/src/shared/domain/criteria"

	"github.com/gin-gonic/gin"
)

// ControllerHelper proporciona funciones base para trabajar con criterios en controllers
type ControllerHelper struct{}

// NewControllerHelper crea una nueva instancia del helper
func NewControllerHelper() *ControllerHelper {
	return &ControllerHelper{}
}

// BuildCriteriaFromQuery construye criterios base desde query parameters de Gin
func (h *ControllerHelper) BuildCriteriaFromQuery(c *gin.Context) *domainCriteria.CriteriaBuilder {
	return domainCriteria.NewCriteriaBuilder().FromURLValues(c.Request.URL.Query())
}

// ValidateAndSanitizeCriteria valida y sanitiza criterios antes de usarlos.
// Descarta filtros sobre campos no permitidos y normaliza el ordenamiento.
func (h *ControllerHelper) ValidateAndSanitizeCriteria(criteria domainCriteria.Criteria, allowedFields []string) domainCriteria.Criteria {
	if len(allowedFields) == 0 {
		return criteria
	}

	// Crear un mapa para búsqueda rápida
	allowedMap := make(map[string]bool)
	for _, field := range allowedFields {
		allowedMap[field] = true
	}

	// Filtrar solo campos permitidos
	validFilters := domainCriteria.NewFilters()
	for _, filter := range criteria.Filters.Items {
		if allowedMap[filter.Field] {
			validFilters.Add(filter)
		}
	}

	// Validar campo de ordenamiento
	validOrder := criteria.Order
	if validOrder.Field != "" && !allowedMap[validOrder.Field] {
		validOrder = domainCriteria.NewOrder("created_at", domainCriteria.DESC)
	}

	return domainCriteria.NewCriteria(validFilters, validOrder, criteria.Limit, criteria.Offset)
}
