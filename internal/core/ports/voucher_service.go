package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/voucher"
)

// VoucherService defines the collaborator contract for voucher lookup and
// redemption. The core treats voucher state (expiry, per-customer usage) as
// this collaborator's responsibility.
type VoucherService interface {
	// Lookup resolves a voucher code for the given customer. It fails when
	// the code is unknown, expired, or already used by this customer.
	Lookup(ctx context.Context, code string, customerID kernel.UUID) (voucher.Voucher, error)

	// Redeem marks the voucher as used by the customer. Called after the
	// order carrying the voucher has been persisted.
	Redeem(ctx context.Context, code string, customerID kernel.UUID) error
}
