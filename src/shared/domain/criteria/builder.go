package criteria

import (
	"net/url"
	"strconv"
)

// CriteriaBuilder construye criterios de forma incremental, típicamente
// a partir de query parameters de un request HTTP
type CriteriaBuilder struct {
	filters Filters
	order   Order
	limit   *int
	offset  *int
}

// NewCriteriaBuilder crea un builder vacío
func NewCriteriaBuilder() *CriteriaBuilder {
	return &CriteriaBuilder{}
}

// WithFilter agrega un filtro al builder
func (b *CriteriaBuilder) WithFilter(field string, operator FilterOperator, value interface{}) *CriteriaBuilder {
	b.filters.Add(NewFilter(field, operator, value))
	return b
}

// WithOrder define el ordenamiento
func (b *CriteriaBuilder) WithOrder(field string, orderType OrderType) *CriteriaBuilder {
	b.order = NewOrder(field, orderType)
	return b
}

// WithPagination define limit y offset
func (b *CriteriaBuilder) WithPagination(limit, offset int) *CriteriaBuilder {
	b.limit = &limit
	b.offset = &offset
	return b
}

// FromURLValues carga ordenamiento y paginación desde query parameters.
// Parámetros reconocidos: order_by, order_type, limit, offset.
// Los filtros por campo quedan a cargo del builder de cada módulo.
func (b *CriteriaBuilder) FromURLValues(values url.Values) *CriteriaBuilder {
	if orderBy := values.Get("order_by"); orderBy != "" {
		orderType := ASC
		if values.Get("order_type") == "DESC" || values.Get("order_type") == "desc" {
			orderType = DESC
		}
		b.order = NewOrder(orderBy, orderType)
	}

	limit := 10
	offset := 0
	if l := values.Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if o := values.Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}
	b.limit = &limit
	b.offset = &offset

	return b
}

// Build construye el criteria final
func (b *CriteriaBuilder) Build() Criteria {
	return NewCriteria(b.filters, b.order, b.limit, b.offset)
}
