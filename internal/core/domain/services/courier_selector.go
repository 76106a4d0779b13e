package services

import (
	"errors"
	"sort"
	"sync"
	"time"

	"kopikurir/internal/core/domain/model/courier"
	"kopikurir/internal/core/domain/model/order"
)

// ErrNoCourierAvailable is returned when no selectable courier exists for
// assignment. Orders stay unassigned and are retried on the next invocation;
// callers treat this as an expected, observable condition rather than a fault.
var ErrNoCourierAvailable = errors.New("no courier available")

// CourierSelector is the domain service implementing the courier-assignment
// policy: load-aware round robin over the roster of selectable couriers.
//
// Candidates are couriers with the administrative active flag set and a
// non-offline operational status, ordered by:
//  1. available before busy
//  2. ascending count of currently active orders
//
// Assignment then round-robins over that ordered list: each order takes the
// courier under the cursor and the cursor advances, wrapping around. The
// cursor provides fairness over time, not strict ordering.
//
// One selector instance is shared between the periodic sweep and the manual
// sweep endpoint, so cursor access is serialized with a mutex.
type CourierSelector struct {
	mu     sync.Mutex
	cursor int
}

// NewCourierSelector creates a selector with the cursor at the start of the
// candidate list.
func NewCourierSelector() *CourierSelector {
	return &CourierSelector{}
}

// Candidates filters and orders the roster per the assignment policy.
// The returned slice is a fresh ordering; the input is not modified.
func (s *CourierSelector) Candidates(couriers []*courier.Courier) []*courier.Courier {
	candidates := make([]*courier.Courier, 0, len(couriers))
	for _, c := range couriers {
		if c.IsSelectable() {
			candidates = append(candidates, c)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if (a.Status() == courier.StatusAvailable) != (b.Status() == courier.StatusAvailable) {
			return a.Status() == courier.StatusAvailable
		}
		return a.ActiveOrders() < b.ActiveOrders()
	})

	return candidates
}

// AssignAll binds each assignable order to a candidate courier, oldest order
// first by the caller's ordering. Orders already bound to a courier are
// skipped untouched; the engine never reassigns. Returns the orders that
// received a courier.
//
// When no candidate exists the remaining orders are left unassigned and
// ErrNoCourierAvailable is returned; callers surface the unassigned count
// instead of treating it as a failure.
func (s *CourierSelector) AssignAll(
	orders []*order.Order,
	couriers []*courier.Courier,
	now time.Time,
) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := s.Candidates(couriers)

	assigned := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if !o.IsAssignable() {
			continue
		}
		if len(candidates) == 0 {
			if len(assigned) == 0 {
				return assigned, ErrNoCourierAvailable
			}
			return assigned, nil
		}

		picked := candidates[s.cursor%len(candidates)]
		s.cursor++

		if err := o.Assign(picked.ID(), now); err != nil {
			return assigned, err
		}
		picked.TakeOrder()
		assigned = append(assigned, o)
	}

	return assigned, nil
}
