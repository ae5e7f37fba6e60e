package voucherrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/voucher"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

var (
	// ErrGormDBIsRequired is returned when a nil *gorm.DB is passed to the constructor.
	ErrGormDBIsRequired = errors.New("gorm db is required")

	// ErrVoucherExpired is returned when the voucher's validity window has passed.
	ErrVoucherExpired = errors.New("voucher has expired")

	// ErrVoucherAlreadyRedeemed is returned when the customer has already
	// used the voucher on a previous order.
	ErrVoucherAlreadyRedeemed = errors.New("voucher already redeemed by customer")
)

var _ ports.VoucherService = &GormVoucherService{}

// GormVoucherService implements voucher lookup and per-customer redemption
// tracking on top of PostgreSQL.
type GormVoucherService struct {
	db *gorm.DB
}

// NewGormVoucherService creates a new GormVoucherService.
func NewGormVoucherService(db *gorm.DB) (*GormVoucherService, error) {
	if db == nil {
		return nil, ErrGormDBIsRequired
	}
	return &GormVoucherService{db: db}, nil
}

// Lookup resolves a voucher code for the given customer. It fails when the
// code is unknown, the voucher has expired, or this customer already
// redeemed it.
func (s *GormVoucherService) Lookup(ctx context.Context, code string, customerID kernel.UUID) (voucher.Voucher, error) {
	if code == "" {
		return voucher.Voucher{}, errs.NewValueIsRequiredError("code")
	}
	if err := customerID.Validate(); err != nil {
		return voucher.Voucher{}, errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}

	var dto VoucherDTO
	result := s.db.WithContext(ctx).First(&dto, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return voucher.Voucher{}, errs.NewObjectNotFoundError("voucher", code)
		}
		return voucher.Voucher{}, result.Error
	}

	aggregate, err := dto.toDomain()
	if err != nil {
		return voucher.Voucher{}, err
	}

	if aggregate.IsExpired(time.Now()) {
		return voucher.Voucher{}, fmt.Errorf("%w: %s", ErrVoucherExpired, code)
	}

	var redemptions int64
	err = s.db.WithContext(ctx).Model(&VoucherRedemptionDTO{}).
		Where("code = ? AND customer_id = ?", code, customerID.Bytes()).
		Count(&redemptions).Error
	if err != nil {
		return voucher.Voucher{}, err
	}
	if redemptions > 0 {
		return voucher.Voucher{}, fmt.Errorf("%w: %s", ErrVoucherAlreadyRedeemed, code)
	}

	return aggregate, nil
}

// Redeem marks the voucher as used by the customer. The composite primary
// key on the redemptions table rejects a second redemption of the same code
// by the same customer.
func (s *GormVoucherService) Redeem(ctx context.Context, code string, customerID kernel.UUID) error {
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}

	dto := VoucherRedemptionDTO{
		Code:       code,
		CustomerID: customerID.Bytes(),
		RedeemedAt: time.Now(),
	}

	result := s.db.WithContext(ctx).Create(&dto)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrVoucherAlreadyRedeemed, code)
		}
		return result.Error
	}

	return nil
}
