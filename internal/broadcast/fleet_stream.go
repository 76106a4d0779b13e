package broadcast

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"log/slog"
	"time"

	"kopikurir/internal/core/application/usecases/queries"
)

// Default cadence of the fleet channel.
const (
	DefaultFleetStreamInterval = 5 * time.Second
	DefaultFleetStreamLifetime = 3 * time.Hour
)

// FleetSnapshotSource provides the fleet read model.
type FleetSnapshotSource interface {
	Handle(ctx context.Context, query queries.GetFleetSnapshotQuery) (queries.GetFleetSnapshotQueryResponse, error)
}

// FleetStream is the admin-facing channel over all couriers with an active
// delivery. Each tick it rebuilds the snapshot and hashes its serialized
// form; an update event goes out only when the hash moved, so idle ticks
// cost the consumer a ping instead of a full identical payload.
type FleetStream struct {
	source      FleetSnapshotSource
	interval    time.Duration
	maxLifetime time.Duration
	log         *slog.Logger
}

// NewFleetStream creates the fleet channel engine shared by all connections.
func NewFleetStream(
	source FleetSnapshotSource,
	interval time.Duration,
	maxLifetime time.Duration,
	log *slog.Logger,
) *FleetStream {
	return &FleetStream{
		source:      source,
		interval:    interval,
		maxLifetime: maxLifetime,
		log:         log.With("component", "fleet-stream"),
	}
}

// Run serves one consumer until it disconnects or the lifetime cap expires.
func (s *FleetStream) Run(ctx context.Context, sink Sink) error {
	query := queries.NewGetFleetSnapshotQuery()

	var lastHash [sha256.Size]byte
	var hashed bool

	expired := runTicks(ctx, s.interval, s.maxLifetime, func(ctx context.Context) tickOutcome {
		snapshot, err := s.source.Handle(ctx, query)
		if err != nil {
			s.log.WarnContext(ctx, "fleet read failed", "error", err)
			return s.emit(sink, Event{Type: EventError, Data: errorView{Reason: "temporarily unavailable"}})
		}

		// The snapshot is sorted by courier ID, so equal fleets always
		// serialize to equal bytes.
		serialized, err := json.Marshal(snapshot)
		if err != nil {
			s.log.WarnContext(ctx, "fleet snapshot serialization failed", "error", err)
			return s.emit(sink, Event{Type: EventError, Data: errorView{Reason: "temporarily unavailable"}})
		}

		hash := sha256.Sum256(serialized)
		if hashed && hash == lastHash {
			return s.emit(sink, Event{Type: EventPing})
		}

		lastHash = hash
		hashed = true
		return s.emit(sink, Event{Type: EventUpdate, Data: snapshot})
	})

	if expired {
		_ = sink.Send(Event{Type: EventClose})
	}
	return nil
}

func (s *FleetStream) emit(sink Sink, event Event) tickOutcome {
	if err := sink.Send(event); err != nil {
		return tickStop
	}
	return tickContinue
}
