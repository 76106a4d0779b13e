package broadcast_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"kopikurir/internal/broadcast"
	"kopikurir/internal/core/application/usecases/queries"
	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedOrderSource returns one scripted step per tick and repeats the last
// step once the script is exhausted.
type scriptedOrderSource struct {
	mu    sync.Mutex
	steps []orderStep
	calls int
}

type orderStep struct {
	view queries.GetOrderTrackingQueryResponse
	err  error
}

func (s *scriptedOrderSource) Handle(
	_ context.Context,
	_ queries.GetOrderTrackingQuery,
) (queries.GetOrderTrackingQueryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	step := s.steps[len(s.steps)-1]
	if s.calls < len(s.steps) {
		step = s.steps[s.calls]
	}
	s.calls++
	return step.view, step.err
}

func (s *scriptedOrderSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recordingSink collects emitted events; after failAfter events (when set) it
// simulates a disconnected consumer.
type recordingSink struct {
	mu        sync.Mutex
	events    []broadcast.Event
	failAfter int
}

func (r *recordingSink) Send(event broadcast.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failAfter > 0 && len(r.events) >= r.failAfter {
		return errors.New("consumer gone")
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) types() []broadcast.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]broadcast.EventType, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

func trackingView(withCourier bool, sampleAt time.Time, terminal bool) queries.GetOrderTrackingQueryResponse {
	view := queries.GetOrderTrackingQueryResponse{
		OrderID:     kernel.NewUUID(),
		OrderNumber: "KK-20260828-0001",
		Status:      "delivering",
		Terminal:    terminal,
	}
	if withCourier {
		view.Courier = &queries.CourierView{ID: kernel.NewUUID(), Name: "Budi"}
		if !sampleAt.IsZero() {
			view.Location = &queries.LocationView{Lat: -6.2, Lon: 106.8, UpdatedAt: sampleAt}
		}
	}
	return view
}

func newOrderStream(source broadcast.OrderTrackingSource) *broadcast.OrderStream {
	return broadcast.NewOrderStream(source, 2*time.Millisecond, time.Second,
		slog.New(slog.DiscardHandler))
}

func TestOrderStream_FullLifecycle(t *testing.T) {
	t1 := time.Now().UTC()
	t2 := t1.Add(10 * time.Second)

	source := &scriptedOrderSource{steps: []orderStep{
		{view: trackingView(false, time.Time{}, false)}, // waiting
		{view: trackingView(false, time.Time{}, false)}, // ping
		{view: trackingView(true, t1, false)},           // init
		{view: trackingView(true, t1, false)},           // unchanged -> ping
		{view: trackingView(true, t2, false)},           // moved -> location
		{view: trackingView(true, t2, true)},            // terminal -> complete
	}}
	sink := &recordingSink{}

	err := newOrderStream(source).Run(context.Background(), kernel.NewUUID(), sink)
	require.NoError(t, err)

	assert.Equal(t, []broadcast.EventType{
		broadcast.EventWaiting,
		broadcast.EventPing,
		broadcast.EventInit,
		broadcast.EventPing,
		broadcast.EventLocation,
		broadcast.EventComplete,
	}, sink.types())
}

func TestOrderStream_ConsumerGoneStopsPolling(t *testing.T) {
	source := &scriptedOrderSource{steps: []orderStep{
		{view: trackingView(false, time.Time{}, false)},
	}}
	sink := &recordingSink{failAfter: 1}

	done := make(chan error, 1)
	go func() {
		done <- newOrderStream(source).Run(context.Background(), kernel.NewUUID(), sink)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after consumer disconnect")
	}

	polled := source.callCount()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, polled, source.callCount(), "Polling must stop with the consumer")
}

func TestOrderStream_UnknownOrderClosesWithError(t *testing.T) {
	source := &scriptedOrderSource{steps: []orderStep{
		{err: errs.NewObjectNotFoundError("order", "missing")},
	}}
	sink := &recordingSink{}

	err := newOrderStream(source).Run(context.Background(), kernel.NewUUID(), sink)
	require.NoError(t, err)

	require.Len(t, sink.events, 1)
	assert.Equal(t, broadcast.EventError, sink.events[0].Type)
	assert.Equal(t, 1, source.callCount())
}

func TestOrderStream_TransientFailureKeepsStreaming(t *testing.T) {
	source := &scriptedOrderSource{steps: []orderStep{
		{err: errors.New("connection reset")},
		{view: trackingView(true, time.Now(), true)},
	}}
	sink := &recordingSink{}

	err := newOrderStream(source).Run(context.Background(), kernel.NewUUID(), sink)
	require.NoError(t, err)

	assert.Equal(t, []broadcast.EventType{
		broadcast.EventError,
		broadcast.EventComplete,
	}, sink.types())
}

func TestOrderStream_ContextCancellationStops(t *testing.T) {
	source := &scriptedOrderSource{steps: []orderStep{
		{view: trackingView(false, time.Time{}, false)},
	}}
	sink := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- newOrderStream(source).Run(ctx, kernel.NewUUID(), sink)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stream did not stop on context cancellation")
	}
}
