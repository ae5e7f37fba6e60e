package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// PaymentMethod identifies the payment channel the purchaser chose.
// Methods that require an online gateway call drive the Pay transition
// through the payment-gateway collaborator; cash on delivery does not.
type PaymentMethod int

const (
	// PaymentMethodUnknown represents an invalid or undefined method.
	PaymentMethodUnknown PaymentMethod = iota

	// CashOnDelivery settles payment at the door; no gateway call is made.
	CashOnDelivery

	// BankTransfer settles through a manual transfer reference.
	BankTransfer

	// CreditCard settles through the online payment gateway.
	CreditCard

	// EWallet settles through a wallet provider's online gateway.
	EWallet
)

func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		PaymentMethodUnknown: "Unknown",
		CashOnDelivery:       "CashOnDelivery",
		BankTransfer:         "BankTransfer",
		CreditCard:           "CreditCard",
		EWallet:              "EWallet",
	}
}

// Validate checks that the PaymentMethod is one of the recognized values.
func (m PaymentMethod) Validate() error {
	switch m {
	case CashOnDelivery, BankTransfer, CreditCard, EWallet:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment method is invalid",
			fmt.Errorf("%d is not a valid payment method", m))
	}
}

// String returns the human-readable method name. Implements fmt.Stringer.
func (m PaymentMethod) String() string {
	if str, ok := getPaymentMethodStrings()[m]; ok {
		return str
	}
	return "Unknown"
}

// RequiresOnlinePayment reports whether the Pay transition for this method
// must go through the online payment gateway.
func (m PaymentMethod) RequiresOnlinePayment() bool {
	return m == CreditCard || m == EWallet
}

// PaymentMethodFromString parses a method name as accepted on the API
// surface. Matching is exact.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	for method, name := range getPaymentMethodStrings() {
		if name == s && method != PaymentMethodUnknown {
			return method, nil
		}
	}
	return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause("payment method is invalid",
		fmt.Errorf("%q is not a valid payment method", s))
}
