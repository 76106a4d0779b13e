// Package queries contains read-only operations over the delivery data.
// Query handlers bypass the repositories and read the database directly,
// returning flat response structs shaped for their consumers.
package queries

import (
	"errors"
	"time"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/order"
	"kopikurir/internal/pkg/guard"
)

var ErrGetOrderTrackingQueryIsNotConstructed = errors.New(
	"GetOrderTrackingQuery must be created via NewGetOrderTrackingQuery constructor",
)

// GetOrderTrackingQuery retrieves the live tracking view of one order: its
// lifecycle state, the assigned courier and the courier's latest reported
// position. Feeds both the tracking endpoint and the per-order stream.
type GetOrderTrackingQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderTrackingQuery creates a tracking query for one order.
func NewGetOrderTrackingQuery(orderID kernel.UUID) (GetOrderTrackingQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderTrackingQuery{}, err
	}

	return GetOrderTrackingQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the tracked order identifier.
func (q GetOrderTrackingQuery) OrderID() kernel.UUID { return q.orderID }

// Validate ensures the query was created through the constructor.
func (q GetOrderTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTrackingQueryIsNotConstructed)
}

// CourierView is the tracking view of an assigned courier.
type CourierView struct {
	ID    kernel.UUID `json:"id"`
	Name  string      `json:"name"`
	Phone string      `json:"phone,omitempty"`
}

// LocationView is the latest reported courier position.
type LocationView struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Accuracy  float64   `json:"accuracy"`
	Speed     float64   `json:"speed"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetOrderTrackingQueryResponse is the tracking view of one order. Courier
// and Location are nil until a courier is assigned and has reported at least
// once. Actions mirror exactly what a transition request would accept.
type GetOrderTrackingQueryResponse struct {
	OrderID     kernel.UUID   `json:"order_id"`
	OrderNumber string        `json:"order_number"`
	Status      string        `json:"status"`
	Terminal    bool          `json:"terminal"`
	Actions     order.Actions `json:"actions"`
	Courier     *CourierView  `json:"courier,omitempty"`
	Location    *LocationView `json:"location,omitempty"`
}
