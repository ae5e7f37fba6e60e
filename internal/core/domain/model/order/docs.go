// Package order provides domain entities and business logic for order
// management in the store. It implements the Order aggregate root with
// lifecycle management and state transitions.
//
// The package includes:
//   - Order: the aggregate root managing identity, priced lines, totals,
//     and the lifecycle state machine
//   - Status: a state machine that enforces valid order status transitions
//   - OrderLine: an immutable snapshot of one purchased product
//   - PaymentMethod: the supported payment channels
//   - Domain events emitted after each successful state transition
//
// Key business rules:
//   - Orders are created in Pending status by the order builder
//   - Pending -> Confirmed -> Paid is the happy path; payment failures move
//     the order to PaymentFailed, from which payment can be retried
//   - Cancellation is allowed from any non-terminal status; cancelling a
//     paid-or-later order flags a refund requirement instead of performing
//     the refund
//   - Completed, Cancelled, and Refunded are terminal
//   - Timestamps are set exactly once and stay consistent with the status
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are
// enforced.
package order
