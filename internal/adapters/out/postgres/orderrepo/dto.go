// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Lines live in their own table keyed by (order_id, line_no); money columns
// use a fixed-point numeric type so amounts survive round trips exactly.
type OrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber string    `gorm:"uniqueIndex"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index"`

	Lines []OrderLineDTO `gorm:"foreignKey:OrderID;references:ID"`

	ShippingAddress string
	ShippingPhone   string
	ReceiverName    string

	PaymentMethod int
	Status        int `gorm:"index"`

	SubTotal      decimal.Decimal `gorm:"type:numeric(14,2)"`
	ShippingFee   decimal.Decimal `gorm:"type:numeric(14,2)"`
	TotalDiscount decimal.Decimal `gorm:"type:numeric(14,2)"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(14,2)"`

	VoucherCode *string

	GiftWrap        bool
	GiftWrapMessage string
	GiftWrapFee     decimal.Decimal `gorm:"type:numeric(14,2)"`

	ExpressDelivery bool

	Notes      string
	AdminNotes string

	CancellationReason string
	RequiresRefund     bool
	RefundAmount       decimal.Decimal `gorm:"type:numeric(14,2)"`

	TransactionID string

	EstimatedDeliveryDate *time.Time

	CreatedAt   time.Time `gorm:"index"`
	ConfirmedAt *time.Time
	PaidAt      *time.Time
	CancelledAt *time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderLineDTO represents one persisted order line. LineNo preserves cart
// insertion order.
type OrderLineDTO struct {
	OrderID uuid.UUID `gorm:"type:uuid;primaryKey"`
	LineNo  int       `gorm:"primaryKey"`

	ProductID   uuid.UUID `gorm:"type:uuid;index"`
	ProductName string
	Quantity    int

	UnitPrice           decimal.Decimal `gorm:"type:numeric(14,2)"`
	DiscountedUnitPrice decimal.Decimal `gorm:"type:numeric(14,2)"`
	DiscountDescription string
}

// TableName specifies the database table name for order line entities.
func (OrderLineDTO) TableName() string {
	return "order_lines"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	lines := aggregate.Lines()
	lineDTOs := make([]OrderLineDTO, 0, len(lines))
	for i, line := range lines {
		lineDTOs = append(lineDTOs, OrderLineDTO{
			OrderID:             aggregate.ID().Bytes(),
			LineNo:              i,
			ProductID:           line.ProductID().Bytes(),
			ProductName:         line.ProductName(),
			Quantity:            line.Quantity(),
			UnitPrice:           line.UnitPrice(),
			DiscountedUnitPrice: line.DiscountedUnitPrice(),
			DiscountDescription: line.DiscountDescription(),
		})
	}

	return OrderDTO{
		ID:          aggregate.ID().Bytes(),
		OrderNumber: aggregate.OrderNumber(),
		CustomerID:  aggregate.CustomerID().Bytes(),

		Lines: lineDTOs,

		ShippingAddress: aggregate.ShippingAddress(),
		ShippingPhone:   aggregate.ShippingPhone(),
		ReceiverName:    aggregate.ReceiverName(),

		PaymentMethod: int(aggregate.PaymentMethod()),
		Status:        int(aggregate.Status()),

		SubTotal:      aggregate.SubTotal(),
		ShippingFee:   aggregate.ShippingFee(),
		TotalDiscount: aggregate.TotalDiscount(),
		TotalAmount:   aggregate.TotalAmount(),

		VoucherCode: aggregate.VoucherCode(),

		GiftWrap:        aggregate.IsGiftWrapped(),
		GiftWrapMessage: aggregate.GiftWrapMessage(),
		GiftWrapFee:     aggregate.GiftWrapFee(),

		ExpressDelivery: aggregate.IsExpressDelivery(),

		Notes:      aggregate.Notes(),
		AdminNotes: aggregate.AdminNotes(),

		CancellationReason: aggregate.CancellationReason(),
		RequiresRefund:     aggregate.RequiresRefund(),
		RefundAmount:       aggregate.RefundAmount(),

		TransactionID: aggregate.TransactionID(),

		EstimatedDeliveryDate: aggregate.EstimatedDeliveryDate(),

		CreatedAt:   aggregate.CreatedAt(),
		ConfirmedAt: aggregate.ConfirmedAt(),
		PaidAt:      aggregate.PaidAt(),
		CancelledAt: aggregate.CancelledAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate via RestoreOrder, which re-validates
// the stored status and timestamps.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	lines := make([]order.OrderLine, 0, len(dto.Lines))
	for _, lineDTO := range dto.Lines {
		productID, lineErr := kernel.UUIDFromBytes(lineDTO.ProductID[:])
		if lineErr != nil {
			return nil, lineErr
		}

		line, lineErr := order.NewOrderLine(
			productID,
			lineDTO.ProductName,
			lineDTO.Quantity,
			lineDTO.UnitPrice,
			lineDTO.DiscountedUnitPrice,
			lineDTO.DiscountDescription,
		)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		NewOrderParams: order.NewOrderParams{
			ID:          id,
			OrderNumber: dto.OrderNumber,
			CustomerID:  customerID,

			Lines: lines,

			ShippingAddress: dto.ShippingAddress,
			ShippingPhone:   dto.ShippingPhone,
			ReceiverName:    dto.ReceiverName,

			PaymentMethod: order.PaymentMethod(dto.PaymentMethod),

			SubTotal:      dto.SubTotal,
			ShippingFee:   dto.ShippingFee,
			TotalDiscount: dto.TotalDiscount,
			TotalAmount:   dto.TotalAmount,

			VoucherCode: dto.VoucherCode,

			GiftWrap:        dto.GiftWrap,
			GiftWrapMessage: dto.GiftWrapMessage,
			GiftWrapFee:     dto.GiftWrapFee,

			ExpressDelivery: dto.ExpressDelivery,

			Notes: dto.Notes,
		},

		Status: order.Status(dto.Status),

		AdminNotes: dto.AdminNotes,

		CancellationReason: dto.CancellationReason,
		RequiresRefund:     dto.RequiresRefund,
		RefundAmount:       dto.RefundAmount,

		TransactionID: dto.TransactionID,

		EstimatedDeliveryDate: dto.EstimatedDeliveryDate,

		CreatedAt:   dto.CreatedAt,
		ConfirmedAt: dto.ConfirmedAt,
		PaidAt:      dto.PaidAt,
		CancelledAt: dto.CancelledAt,
	})
}
