// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the order system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - OrderBuilder: A domain service that assembles a priced order from the
//     purchaser, the requested items, shipping details, and an optional voucher
//   - pricing: The per-line discount strategies and the resolver that picks
//     the winning strategy for each (product, purchaser) pair
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
