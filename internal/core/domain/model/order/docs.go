// Package order implements the order-delivery state machine: the aggregate
// that owns order status, the courier binding, and the courier-interaction
// timestamps gating transitions.
//
// The precondition table for courier events lives in exactly one place
// (events.go) and is shared by the mutating Apply operation and the pure
// AvailableActions query, so the two can never disagree. Precondition
// failures surface as TransitionRejectedError values that callers inspect,
// not as faults.
package order
