package voucherrepo

import (
	"time"

	"orderflow/internal/core/domain/model/voucher"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherDTO is the database representation of a redeemable voucher.
type VoucherDTO struct {
	Code           string          `gorm:"primaryKey"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(14,2)"`
	ExpiresAt      time.Time
}

// TableName overrides the table name used by GORM.
func (VoucherDTO) TableName() string {
	return "vouchers"
}

// VoucherRedemptionDTO records a single use of a voucher by a customer.
// The composite primary key enforces one redemption per customer per code.
type VoucherRedemptionDTO struct {
	Code       string    `gorm:"primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RedeemedAt time.Time
}

// TableName overrides the table name used by GORM.
func (VoucherRedemptionDTO) TableName() string {
	return "voucher_redemptions"
}

func (dto VoucherDTO) toDomain() (voucher.Voucher, error) {
	return voucher.NewVoucher(dto.Code, dto.DiscountAmount, dto.ExpiresAt)
}
