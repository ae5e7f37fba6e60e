// Package pricing implements the per-line discount resolution used by the
// order builder. Each discount source is a pluggable Strategy; the Resolver
// composes them by selecting the single largest applicable discount percent
// for a (product, purchaser) pair. Discounts from different strategies are
// never summed, which rewards the purchaser's best eligible rate without
// allowing unbounded stacking.
//
// Built-in strategies:
//   - Standard: no discount, the baseline every resolution falls back to
//   - Loyalty: a configured percent per loyalty tier
//   - ProfileMatch: a configured percent when the purchaser's completed skin
//     quiz matches the product's target profile
//   - Sale: a configured promotional percent per product
//
// Order-level voucher discounts are independent of this package and applied
// by the order builder on top of the line-level result.
package pricing
