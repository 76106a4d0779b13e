package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"kopikurir/internal/core/application/usecases/queries"
	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/pkg/errs"
)

// Default cadence of the per-order channel.
const (
	DefaultOrderStreamInterval = 3 * time.Second
	DefaultOrderStreamLifetime = 3 * time.Hour
)

// OrderTrackingSource provides the per-order tracking read model.
type OrderTrackingSource interface {
	Handle(ctx context.Context, query queries.GetOrderTrackingQuery) (queries.GetOrderTrackingQueryResponse, error)
}

// OrderStream is the customer-facing channel tracking one delivery.
//
// While no courier is bound it emits a single waiting event and keeps the
// transport alive with pings. Once a courier is bound it emits init with the
// static order view, then a location event whenever the courier's sample
// timestamp moves and a ping otherwise. A terminal order status produces a
// final complete event and closes the channel.
type OrderStream struct {
	source      OrderTrackingSource
	interval    time.Duration
	maxLifetime time.Duration
	log         *slog.Logger
}

// NewOrderStream creates the per-order channel engine shared by all
// connections; each connection calls Run with its own sink.
func NewOrderStream(
	source OrderTrackingSource,
	interval time.Duration,
	maxLifetime time.Duration,
	log *slog.Logger,
) *OrderStream {
	return &OrderStream{
		source:      source,
		interval:    interval,
		maxLifetime: maxLifetime,
		log:         log.With("component", "order-stream"),
	}
}

// Run serves one consumer until the order completes, the consumer
// disconnects, the lifetime cap expires, or the order turns out not to exist.
func (s *OrderStream) Run(ctx context.Context, orderID kernel.UUID, sink Sink) error {
	query, err := queries.NewGetOrderTrackingQuery(orderID)
	if err != nil {
		return err
	}

	var (
		waitingSent bool
		initSent    bool
		lastSample  time.Time
	)

	expired := runTicks(ctx, s.interval, s.maxLifetime, func(ctx context.Context) tickOutcome {
		view, err := s.source.Handle(ctx, query)
		if err != nil {
			if errors.Is(err, errs.ErrObjectNotFound) {
				_ = sink.Send(Event{Type: EventError, Data: errorView{Reason: "order not found"}})
				return tickStop
			}
			// Transient read failure: tell the consumer and keep polling.
			s.log.WarnContext(ctx, "tracking read failed",
				"order_id", orderID.String(), "error", err)
			return s.emit(sink, Event{Type: EventError, Data: errorView{Reason: "temporarily unavailable"}})
		}

		if view.Terminal {
			_ = sink.Send(Event{Type: EventComplete, Data: view})
			return tickStop
		}

		if view.Courier == nil {
			if waitingSent {
				return s.emit(sink, Event{Type: EventPing})
			}
			waitingSent = true
			return s.emit(sink, Event{Type: EventWaiting, Data: view})
		}

		if !initSent {
			initSent = true
			if view.Location != nil {
				lastSample = view.Location.UpdatedAt
			}
			return s.emit(sink, Event{Type: EventInit, Data: view})
		}

		if view.Location != nil && view.Location.UpdatedAt.After(lastSample) {
			lastSample = view.Location.UpdatedAt
			return s.emit(sink, Event{Type: EventLocation, Data: view.Location})
		}

		return s.emit(sink, Event{Type: EventPing})
	})

	if expired {
		s.log.InfoContext(ctx, "stream lifetime cap reached", "order_id", orderID.String())
	}
	return nil
}

func (s *OrderStream) emit(sink Sink, event Event) tickOutcome {
	if err := sink.Send(event); err != nil {
		return tickStop
	}
	return tickContinue
}

// errorView is the payload of an error event: a human-readable reason only,
// never a raw error.
type errorView struct {
	Reason string `json:"reason"`
}
