// Package broadcast implements the long-lived push channels: per-order
// tracking for customers and the fleet map for admins. Both channels follow
// the same pattern: poll a read model on a fixed tick, emit an event only
// when something changed, keep the transport alive with pings otherwise, and
// stop the moment the consumer is gone.
//
// The package is transport-agnostic. A Sink abstracts the consumer; the HTTP
// adapter maps events onto SSE frames.
package broadcast

// EventType identifies a stream event.
type EventType string

const (
	// EventInit carries the static order view once a courier is bound.
	EventInit EventType = "init"
	// EventWaiting tells the customer no courier is assigned yet.
	EventWaiting EventType = "waiting"
	// EventLocation carries a fresh courier position.
	EventLocation EventType = "location"
	// EventPing keeps the transport alive when nothing changed.
	EventPing EventType = "ping"
	// EventComplete is the terminal event of an order stream.
	EventComplete EventType = "complete"
	// EventError reports a transient per-tick failure; the stream continues.
	EventError EventType = "error"
	// EventUpdate carries a changed fleet snapshot.
	EventUpdate EventType = "update"
	// EventClose announces a graceful end of a fleet stream.
	EventClose EventType = "close"
)

// Event is one unit pushed to a stream consumer. Data is nil for pings and
// closes; otherwise it is a JSON-serializable view.
type Event struct {
	Type EventType
	Data any
}

// Sink delivers events to one connected consumer. A Send error means the
// consumer is gone; the stream must stop polling immediately.
type Sink interface {
	Send(event Event) error
}
