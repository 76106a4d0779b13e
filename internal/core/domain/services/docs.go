// Package services provides domain services that orchestrate business
// operations across multiple aggregates. It implements workflows that don't
// naturally belong to a single aggregate root.
//
// The package includes:
//   - CourierSelector: the load-aware round-robin policy binding unassigned
//     delivery orders to couriers
package services
