package criteria

// Criteria agrupa filtros, ordenamiento y paginación para consultas de listado
type Criteria struct {
	Filters Filters
	Order   Order
	Limit   *int
	Offset  *int
}

// NewCriteria crea un criteria combinando filtros, orden y paginación
func NewCriteria(filters Filters, order Order, limit, offset *int) Criteria {
	return Criteria{
		Filters: filters,
		Order:   order,
		Limit:   limit,
		Offset:  offset,
	}
}

// FilterOperator operadores soportados por los filtros
type FilterOperator string

const (
	OpEqual              FilterOperator = "="
	OpNotEqual           FilterOperator = "!="
	OpGreaterThan        FilterOperator = ">"
	OpGreaterThanOrEqual FilterOperator = ">="
	OpLessThan           FilterOperator = "<"
	OpLessThanOrEqual    FilterOperator = "<="
	OpLike               FilterOperator = "LIKE"
	OpIn                 FilterOperator = "IN"
	OpIsNull             FilterOperator = "IS NULL"
	OpIsNotNull          FilterOperator = "IS NOT NULL"
	OpArrayContains      FilterOperator = "ARRAY_CONTAINS"
)

// Filter representa una condición individual sobre un campo
type Filter struct {
	Field    string
	Operator FilterOperator
	Value    interface{}
}

// NewFilter crea un filtro individual
func NewFilter(field string, operator FilterOperator, value interface{}) Filter {
	return Filter{
		Field:    field,
		Operator: operator,
		Value:    value,
	}
}

// Filters colección de filtros combinados con AND
type Filters struct {
	Items []Filter
}

// NewFilters crea una colección de filtros
func NewFilters(filters ...Filter) Filters {
	return Filters{Items: filters}
}

// Add agrega un filtro a la colección
func (f *Filters) Add(filter Filter) {
	f.Items = append(f.Items, filter)
}

// IsEmpty indica si no hay filtros definidos
func (f Filters) IsEmpty() bool {
	return len(f.Items) == 0
}

// OrderType dirección del ordenamiento
type OrderType string

const (
	ASC  OrderType = "ASC"
	DESC OrderType = "DESC"
)

// Order representa el ordenamiento de una consulta
type Order struct {
	Field     string
	OrderType OrderType
}

// NewOrder crea un ordenamiento sobre un campo
func NewOrder(field string, orderType OrderType) Order {
	return Order{
		Field:     field,
		OrderType: orderType,
	}
}

// IsEmpty indica si no hay ordenamiento definido
func (o Order) IsEmpty() bool {
	return o.Field == ""
}
