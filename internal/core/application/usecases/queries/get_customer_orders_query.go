package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetCustomerOrdersQueryIsNotConstructed = errors.New(
	"GetCustomerOrdersQuery must be created via NewGetCustomerOrdersQuery constructor",
)

const defaultCustomerOrdersLimit = 20

// GetCustomerOrdersQuery retrieves a purchaser's order history, newest
// first, paged by limit and offset.
type GetCustomerOrdersQuery struct {
	customerID kernel.UUID
	limit      int
	offset     int

	guard guard.ConstructorGuard
}

// NewGetCustomerOrdersQuery creates a query for a purchaser's orders.
// A non-positive limit falls back to the default page size.
func NewGetCustomerOrdersQuery(customerID kernel.UUID, limit, offset int) (GetCustomerOrdersQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetCustomerOrdersQuery{}, err
	}
	if offset < 0 {
		return GetCustomerOrdersQuery{}, errs.NewValueIsInvalidError("offset must not be negative")
	}
	if limit <= 0 {
		limit = defaultCustomerOrdersLimit
	}

	return GetCustomerOrdersQuery{
		customerID: customerID,
		limit:      limit,
		offset:     offset,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerOrdersQueryIsNotConstructed)
}

// CustomerID returns the purchaser whose orders are requested.
func (q GetCustomerOrdersQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// Limit returns the page size.
func (q GetCustomerOrdersQuery) Limit() int {
	return q.limit
}

// Offset returns the page offset.
func (q GetCustomerOrdersQuery) Offset() int {
	return q.offset
}

// GetCustomerOrdersQueryResponse is one row of a purchaser's order history.
// Line details are omitted; load a single order for those.
type GetCustomerOrdersQueryResponse struct {
	ID          kernel.UUID
	OrderNumber string
	Status      string
	TotalAmount decimal.Decimal
	LineCount   int
	CreatedAt   time.Time
}
