package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
)

var _ ports.PaymentGateway = &SandboxGateway{}

// SandboxGateway is a development stand-in for a real payment provider. It
// approves every well-formed charge and issues a synthetic transaction id
// and checkout URL so the rest of the flow can be exercised end to end.
type SandboxGateway struct {
	checkoutBaseURL string
	sessionTTL      time.Duration
}

// NewSandboxGateway creates a SandboxGateway issuing checkout sessions under
// the given base URL with the given validity window.
func NewSandboxGateway(checkoutBaseURL string, sessionTTL time.Duration) (*SandboxGateway, error) {
	if checkoutBaseURL == "" {
		return nil, errs.NewValueIsRequiredError("checkoutBaseURL")
	}
	if sessionTTL <= 0 {
		return nil, errs.NewValueIsInvalidError("sessionTTL")
	}
	return &SandboxGateway{
		checkoutBaseURL: strings.TrimRight(checkoutBaseURL, "/"),
		sessionTTL:      sessionTTL,
	}, nil
}

// Charge approves the payment attempt and returns a successful result with
// a synthetic transaction id.
func (g *SandboxGateway) Charge(_ context.Context, req ports.PaymentChargeRequest) (order.PaymentResult, error) {
	if req.OrderID == "" {
		return order.PaymentResult{}, errs.NewValueIsRequiredError("orderID")
	}
	if !req.Amount.IsPositive() {
		return order.PaymentResult{}, errs.NewValueIsInvalidError("amount")
	}

	sessionID := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	expiresAt := time.Now().Add(g.sessionTTL)

	return order.PaymentResult{
		Success:       true,
		TransactionID: "SBX-" + sessionID,
		PaymentURL:    fmt.Sprintf("%s/checkout/%s", g.checkoutBaseURL, sessionID),
		ExpiresAt:     &expiresAt,
	}, nil
}
