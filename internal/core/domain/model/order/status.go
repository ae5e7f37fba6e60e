package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a state
// machine with guarded transitions so orders follow the business workflow.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Paid ──> Processing ──> Shipping ──> Delivered ──> Completed
//	               │ ▲
//	               ▼ │
//	         PaymentFailed
//
//	Any non-terminal state ──> Cancelled ──> Refunded (when a refund is owed)
//
// Completed, Cancelled, and Refunded are terminal. Status is a value object
// that validates state transitions and provides string representations for
// persistence and display.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// Pending is the initial status set by the order builder. The order is
	// priced and validated but not yet confirmed by the store.
	Pending

	// Confirmed means the store accepted the order and reserved stock.
	Confirmed

	// Paid means payment completed successfully.
	Paid

	// Processing means the warehouse is preparing the order.
	Processing

	// Shipping means the order has left the warehouse.
	Shipping

	// Delivered means the carrier handed the order to the receiver.
	Delivered

	// Completed is the terminal happy-path status.
	Completed

	// Cancelled is a terminal status reached from any non-terminal status.
	Cancelled

	// Refunded is a terminal status for cancelled orders whose payment was
	// returned through the refund-issuance collaborator.
	Refunded

	// PaymentFailed means the last payment attempt failed. Payment can be
	// retried, or the order can be cancelled.
	PaymentFailed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		Pending:       "Pending",
		Confirmed:     "Confirmed",
		Paid:          "Paid",
		Processing:    "Processing",
		Shipping:      "Shipping",
		Delivered:     "Delivered",
		Completed:     "Completed",
		Cancelled:     "Cancelled",
		Refunded:      "Refunded",
		PaymentFailed: "PaymentFailed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:       "Pending",
		Confirmed:     "Confirmed",
		Paid:          "Paid",
		Processing:    "Processing",
		Shipping:      "Shipping",
		Delivered:     "Delivered",
		Completed:     "Completed",
		Cancelled:     "Cancelled",
		Refunded:      "Refunded",
		PaymentFailed: "PaymentFailed",
	}
}

// Validate checks if the Status value is one of the defined statuses.
// StatusUnknown (0) and any other values are invalid. Used to vet Status
// values arriving from external sources such as the database.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Refunded
}

// IsPaidOrLater reports whether payment has been captured for an order in
// this status. Cancelling such an order requires a refund.
func (s Status) IsPaidOrLater() bool {
	switch s {
	case Paid, Processing, Shipping, Delivered, Completed:
		return true
	default:
		return false
	}
}

// ValidateConfirm checks that the status allows confirmation without
// performing the transition. Only Pending orders can be confirmed.
func (s Status) ValidateConfirm() error {
	if s != Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("order not Pending: %s cannot be confirmed", s.String()),
		)
	}
	return nil
}

// ValidatePay checks that the status allows a payment attempt without
// performing the transition. Payment is allowed from Confirmed and from
// PaymentFailed (retry).
func (s Status) ValidatePay() error {
	if s != Confirmed && s != PaymentFailed {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("order not in a payable state: %s", s.String()),
		)
	}
	return nil
}

// ValidateCancel checks that the status allows cancellation without
// performing the transition. Any non-terminal status can be cancelled.
func (s Status) ValidateCancel() error {
	if _, ok := getValidStatusStrings()[s]; !ok || s.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("order not in a cancellable state: %s", s.String()),
		)
	}
	return nil
}

// Confirm transitions the status to Confirmed.
// Returns (0, error) if the order is not Pending.
func (s Status) Confirm() (Status, error) {
	if err := s.ValidateConfirm(); err != nil {
		return 0, err
	}
	return Confirmed, nil
}

// Pay transitions the status after a payment attempt. A successful attempt
// moves the order to Paid; a failed one to PaymentFailed. Returns (0, error)
// if the order is not in a payable state.
func (s Status) Pay(success bool) (Status, error) {
	if err := s.ValidatePay(); err != nil {
		return 0, err
	}
	if success {
		return Paid, nil
	}
	return PaymentFailed, nil
}

// Cancel transitions the status to Cancelled.
// Returns (0, error) if the status is terminal or undefined.
func (s Status) Cancel() (Status, error) {
	if err := s.ValidateCancel(); err != nil {
		return 0, err
	}
	return Cancelled, nil
}

// StartProcessing transitions a Paid order to Processing.
func (s Status) StartProcessing() (Status, error) {
	if s != Paid {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start processing", s.String()),
		)
	}
	return Processing, nil
}

// Ship transitions a Processing order to Shipping.
func (s Status) Ship() (Status, error) {
	if s != Processing {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to ship", s.String()),
		)
	}
	return Shipping, nil
}

// Deliver transitions a Shipping order to Delivered.
func (s Status) Deliver() (Status, error) {
	if s != Shipping {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s.String()),
		)
	}
	return Delivered, nil
}

// Complete transitions a Delivered order to the terminal Completed status.
func (s Status) Complete() (Status, error) {
	if s != Delivered {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s.String()),
		)
	}
	return Completed, nil
}

// Refund transitions a Cancelled order to the terminal Refunded status once
// the refund-issuance collaborator reports success.
func (s Status) Refund() (Status, error) {
	if s != Cancelled {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to refund", s.String()),
		)
	}
	return Refunded, nil
}
