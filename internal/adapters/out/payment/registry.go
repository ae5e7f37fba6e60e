// Package payment holds the payment gateway implementations and the
// registry that maps payment methods to them. Only online methods need a
// gateway; cash and bank transfer settle outside the system.
package payment

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

var (
	// ErrPaymentMethodIsInvalid is returned when registering a gateway for an
	// unrecognized payment method.
	ErrPaymentMethodIsInvalid = errors.New("payment method is invalid")

	// ErrGatewayIsRequired is returned when registering a nil gateway.
	ErrGatewayIsRequired = errors.New("gateway is required")

	// ErrGatewayNotRegistered is returned when no gateway serves the method.
	ErrGatewayNotRegistered = errors.New("no payment gateway registered for method")
)

var _ ports.PaymentGatewayRegistry = &Registry{}

// Registry resolves the payment gateway serving a given payment method.
type Registry struct {
	gateways map[order.PaymentMethod]ports.PaymentGateway
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		gateways: make(map[order.PaymentMethod]ports.PaymentGateway),
	}
}

// Register binds a gateway to a payment method, replacing any previous
// binding for that method.
func (r *Registry) Register(method order.PaymentMethod, gateway ports.PaymentGateway) error {
	if err := method.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrPaymentMethodIsInvalid, method.String())
	}
	if gateway == nil {
		return ErrGatewayIsRequired
	}
	r.gateways[method] = gateway
	return nil
}

// GatewayFor returns the gateway for the method, or an error when none is
// registered.
func (r *Registry) GatewayFor(method order.PaymentMethod) (ports.PaymentGateway, error) {
	gateway, ok := r.gateways[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGatewayNotRegistered, method.String())
	}
	return gateway, nil
}
