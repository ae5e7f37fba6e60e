package queries

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCustomerOrdersQueryHandler retrieves a purchaser's order history from
// the database.
type GetCustomerOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetCustomerOrdersQueryHandler creates a handler for order history
// queries.
func NewGetCustomerOrdersQueryHandler(db *gorm.DB) GetCustomerOrdersQueryHandler {
	return GetCustomerOrdersQueryHandler{db: db}
}

// Handle executes the query. Orders are returned newest first; a purchaser
// with no orders yields an empty slice, not an error.
func (h GetCustomerOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetCustomerOrdersQuery,
) ([]GetCustomerOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.order_number,
			o.status,
			o.total_amount,
			COUNT(l.order_id) AS line_count,
			o.created_at
		FROM orders o
		LEFT JOIN order_lines l ON l.order_id = o.id
		WHERE o.customer_id = ?
		GROUP BY o.id, o.order_number, o.status, o.total_amount, o.created_at
		ORDER BY o.created_at DESC
		LIMIT ? OFFSET ?
	`, query.CustomerID().Bytes(), query.Limit(), query.Offset()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetCustomerOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			resp   GetCustomerOrdersQueryResponse
			id     uuid.UUID
			status int
		)

		err = rows.Scan(
			&id,
			&resp.OrderNumber,
			&status,
			&resp.TotalAmount,
			&resp.LineCount,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		resp.Status = order.Status(status).String()

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
