package entity

import "errors"

var (
	ErrTenantIDRequired          = errors.New("tenant_id is required")
	ErrTitleRequired             = errors.New("title is required")
	ErrProductNameRequired       = errors.New("product_name is required")
	ErrInvalidQuantity           = errors.New("quantity must be greater than 0")
	ErrInvalidUnitPrice          = errors.New("unit_price must be greater than or equal to 0")
	ErrInvalidDiscountPercent    = errors.New("discount_percent must be between 0 and 100")
	ErrInvalidFreightMode        = errors.New("freight_mode must be CIF or FOB")
	ErrOpportunityNotFound       = errors.New("opportunity not found")
	ErrOpportunityNotOpen        = errors.New("opportunity is not in OPEN stage")
	ErrOpportunityMustHaveItems  = errors.New("opportunity must have at least one item")
	ErrEmptyBatch                = errors.New("batch must contain at least one item update")
	ErrItemUpdateWithoutFields   = errors.New("item update must change at least one field")
)
