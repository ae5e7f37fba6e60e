package queries

import (
	"context"
	"database/sql"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves one order with its lines from the
// database. The response mirrors the stored row; no domain aggregate is
// reconstructed on the read path.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns an object-not-found error when no
// order with the given id exists.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			customer_id,
			shipping_address,
			shipping_phone,
			receiver_name,
			payment_method,
			status,
			sub_total,
			shipping_fee,
			total_discount,
			total_amount,
			voucher_code,
			gift_wrap,
			gift_wrap_message,
			express_delivery,
			notes,
			admin_notes,
			cancellation_reason,
			requires_refund,
			refund_amount,
			transaction_id,
			estimated_delivery_date,
			created_at,
			confirmed_at,
			paid_at,
			cancelled_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	resp, err := scanOrderRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	lines, err := h.loadLines(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.Lines = lines

	return resp, nil
}

func scanOrderRow(row *sql.Row) (GetOrderQueryResponse, error) {
	var (
		resp          GetOrderQueryResponse
		id            uuid.UUID
		customerID    uuid.UUID
		paymentMethod int
		status        int
	)

	err := row.Scan(
		&id,
		&resp.OrderNumber,
		&customerID,
		&resp.ShippingAddress,
		&resp.ShippingPhone,
		&resp.ReceiverName,
		&paymentMethod,
		&status,
		&resp.SubTotal,
		&resp.ShippingFee,
		&resp.TotalDiscount,
		&resp.TotalAmount,
		&resp.VoucherCode,
		&resp.GiftWrap,
		&resp.GiftWrapMessage,
		&resp.ExpressDelivery,
		&resp.Notes,
		&resp.AdminNotes,
		&resp.CancellationReason,
		&resp.RequiresRefund,
		&resp.RefundAmount,
		&resp.TransactionID,
		&resp.EstimatedDeliveryDate,
		&resp.CreatedAt,
		&resp.ConfirmedAt,
		&resp.PaidAt,
		&resp.CancelledAt,
	)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.PaymentMethod = order.PaymentMethod(paymentMethod).String()
	resp.Status = order.Status(status).String()

	return resp, nil
}

func (h GetOrderQueryHandler) loadLines(ctx context.Context, orderID kernel.UUID) ([]OrderLineResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			product_id,
			product_name,
			quantity,
			unit_price,
			discounted_unit_price,
			discount_description
		FROM order_lines
		WHERE order_id = ?
		ORDER BY line_no
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]OrderLineResponse, 0)
	for rows.Next() {
		var (
			line      OrderLineResponse
			productID uuid.UUID
		)

		err = rows.Scan(
			&productID,
			&line.ProductName,
			&line.Quantity,
			&line.UnitPrice,
			&line.DiscountedUnitPrice,
			&line.DiscountDescription,
		)
		if err != nil {
			return nil, err
		}

		if line.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return nil, err
		}
		line.Subtotal = line.DiscountedUnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))

		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
