package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/3est3est/motorcycle-service/pkg/enums"
)

// PartFilters describe the inputs supported by the parts list.
type PartFilters struct {
	Query       string
	InStockOnly bool
}

// CreatePartInput captures the fields required to add a catalog item.
type CreatePartInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	StockQty    int
	ActorRole   enums.UserRole
}

// UpdatePartInput carries the optional fields of a catalog edit. Nil fields
// are left untouched.
type UpdatePartInput struct {
	PartID      uuid.UUID
	Name        *string
	Description *string
	Price       *decimal.Decimal
	StockQty    *int
	ActorRole   enums.UserRole
}
