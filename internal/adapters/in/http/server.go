// Package http exposes the delivery subsystem over echo: transition and
// assignment commands, tracking read models, the two SSE stream channels,
// worker health, and the operational endpoints.
package http

import (
	"errors"
	"net/http"
	"time"

	"kopikurir/internal/broadcast"
	"kopikurir/internal/core/application/usecases/commands"
	"kopikurir/internal/core/application/usecases/queries"
	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/order"
	"kopikurir/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const defaultMessageMaxRetries = 3

// StreamMetrics tracks open stream connections per channel.
type StreamMetrics interface {
	StreamOpened(channel string)
	StreamClosed(channel string)
}

// Server wires HTTP requests to the application use cases.
type Server struct {
	transitionHandler commands.RequestTransitionCommandHandler
	assignHandler     commands.AssignCouriersCommandHandler
	reassignHandler   commands.ReassignOrderCommandHandler
	locationHandler   commands.RecordLocationCommandHandler
	enqueueHandler    commands.EnqueueMessageCommandHandler

	trackingQuery queries.GetOrderTrackingQueryHandler
	fleetQuery    queries.GetFleetSnapshotQueryHandler
	healthQuery   queries.GetWorkerHealthQueryHandler

	orderStream *broadcast.OrderStream
	fleetStream *broadcast.FleetStream

	streams          StreamMetrics
	metricsHandler   http.Handler
	workerStaleAfter time.Duration
}

// NewServer creates the HTTP server over the given use cases and streams.
func NewServer(
	transitionHandler commands.RequestTransitionCommandHandler,
	assignHandler commands.AssignCouriersCommandHandler,
	reassignHandler commands.ReassignOrderCommandHandler,
	locationHandler commands.RecordLocationCommandHandler,
	enqueueHandler commands.EnqueueMessageCommandHandler,
	trackingQuery queries.GetOrderTrackingQueryHandler,
	fleetQuery queries.GetFleetSnapshotQueryHandler,
	healthQuery queries.GetWorkerHealthQueryHandler,
	orderStream *broadcast.OrderStream,
	fleetStream *broadcast.FleetStream,
	streams StreamMetrics,
	metricsHandler http.Handler,
	workerStaleAfter time.Duration,
) *Server {
	return &Server{
		transitionHandler: transitionHandler,
		assignHandler:     assignHandler,
		reassignHandler:   reassignHandler,
		locationHandler:   locationHandler,
		enqueueHandler:    enqueueHandler,
		trackingQuery:     trackingQuery,
		fleetQuery:        fleetQuery,
		healthQuery:       healthQuery,
		orderStream:       orderStream,
		fleetStream:       fleetStream,
		streams:           streams,
		metricsHandler:    metricsHandler,
		workerStaleAfter:  workerStaleAfter,
	}
}

// RegisterRoutes mounts all routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders/:orderID/transition", s.RequestTransition)
	api.GET("/orders/:orderID/actions", s.GetAvailableActions)
	api.GET("/orders/:orderID/tracking", s.GetOrderTracking)
	api.GET("/orders/:orderID/stream", s.StreamOrder)
	api.POST("/orders/:orderID/reassign", s.ReassignOrder)

	api.POST("/couriers/:courierID/location", s.RecordLocation)

	api.POST("/assignments/sweep", s.RunAssignmentSweep)
	api.POST("/messages", s.EnqueueMessage)

	api.GET("/fleet/stream", s.StreamFleet)
	api.GET("/workers/:worker/health", s.GetWorkerHealth)

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(s.metricsHandler))
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type transitionRequest struct {
	Event     string `json:"event"`
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
}

// RequestTransition handles POST /api/v1/orders/:orderID/transition.
// The response on success is the fresh tracking view, so the caller sees the
// new status and action set in one round trip. Precondition rejections come
// back as 409 with the human-readable reason.
func (s *Server) RequestTransition(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req transitionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	event, err := order.EventFromString(req.Event)
	if err != nil {
		return badRequest(ctx, "Unknown transition event: "+req.Event)
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor id")
	}

	cmd, err := commands.NewRequestTransitionCommand(orderID, event, actorID, req.ActorRole)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.transitionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		var rejection *order.TransitionRejectedError
		if errors.As(err, &rejection) {
			return ctx.JSON(http.StatusConflict, errorResponse{
				Code:    http.StatusConflict,
				Message: rejection.Reason,
			})
		}
		return s.mapError(ctx, err, "Failed to apply transition")
	}

	return s.respondTracking(ctx, orderID)
}

// GetAvailableActions handles GET /api/v1/orders/:orderID/actions.
func (s *Server) GetAvailableActions(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderTrackingQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	view, err := s.trackingQuery.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.mapError(ctx, err, "Failed to read order")
	}

	return ctx.JSON(http.StatusOK, view.Actions)
}

// GetOrderTracking handles GET /api/v1/orders/:orderID/tracking.
func (s *Server) GetOrderTracking(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	return s.respondTracking(ctx, orderID)
}

type reassignRequest struct {
	CourierID string `json:"courier_id"`
}

// ReassignOrder handles POST /api/v1/orders/:orderID/reassign, the
// administrative override outside the assignment engine.
func (s *Server) ReassignOrder(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req reassignRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	cmd, err := commands.NewReassignOrderCommand(orderID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.reassignHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		if errors.Is(err, commands.ErrCourierNotSelectable) {
			return ctx.JSON(http.StatusConflict, errorResponse{
				Code:    http.StatusConflict,
				Message: "Courier cannot receive orders",
			})
		}
		return s.mapError(ctx, err, "Failed to reassign order")
	}

	return s.respondTracking(ctx, orderID)
}

type locationRequest struct {
	Lat      float64    `json:"lat"`
	Lon      float64    `json:"lon"`
	Accuracy float64    `json:"accuracy"`
	Speed    float64    `json:"speed"`
	PingedAt *time.Time `json:"pinged_at"`
}

// RecordLocation handles POST /api/v1/couriers/:courierID/location.
func (s *Server) RecordLocation(ctx echo.Context) error {
	courierID, err := parseUUIDParam(ctx, "courierID")
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	var req locationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	point, err := kernel.NewGeoPoint(req.Lat, req.Lon)
	if err != nil {
		return badRequest(ctx, "Invalid coordinates")
	}

	pingedAt := time.Now()
	if req.PingedAt != nil {
		pingedAt = *req.PingedAt
	}

	cmd, err := commands.NewRecordLocationCommand(courierID, point, req.Accuracy, req.Speed, pingedAt)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.locationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapError(ctx, err, "Failed to record location")
	}

	return ctx.NoContent(http.StatusNoContent)
}

type sweepResponse struct {
	Status string `json:"status"`
}

// RunAssignmentSweep handles POST /api/v1/assignments/sweep, the manual
// trigger for the same sweep the cron job runs. An empty courier pool is an
// expected condition, reported in the body rather than as an error status.
func (s *Server) RunAssignmentSweep(ctx echo.Context) error {
	cmd := commands.NewAssignCouriersCommand()

	err := s.assignHandler.Handle(ctx.Request().Context(), cmd)
	if errors.Is(err, commands.ErrNoSelectableCouriers) {
		return ctx.JSON(http.StatusOK, sweepResponse{Status: "no_selectable_couriers"})
	}
	if err != nil {
		return s.mapError(ctx, err, "Assignment sweep failed")
	}

	return ctx.JSON(http.StatusOK, sweepResponse{Status: "ok"})
}

type messageRequest struct {
	Provider   string `json:"provider"`
	To         string `json:"to"`
	Body       string `json:"body"`
	MaxRetries *int   `json:"max_retries"`
}

type messageResponse struct {
	MessageID string `json:"message_id"`
}

// EnqueueMessage handles POST /api/v1/messages. Delivery is the reliability
// worker's job; the call returns as soon as the message is persisted.
func (s *Server) EnqueueMessage(ctx echo.Context) error {
	var req messageRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	maxRetries := defaultMessageMaxRetries
	if req.MaxRetries != nil {
		maxRetries = *req.MaxRetries
	}

	messageID := kernel.NewUUID()
	cmd, err := commands.NewEnqueueMessageCommand(messageID, req.Provider, req.To, req.Body, maxRetries)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.enqueueHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapError(ctx, err, "Failed to enqueue message")
	}

	return ctx.JSON(http.StatusAccepted, messageResponse{MessageID: messageID.String()})
}

// StreamOrder handles GET /api/v1/orders/:orderID/stream as an SSE channel.
func (s *Server) StreamOrder(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	sink, err := newSSESink(ctx.Response())
	if err != nil {
		return s.mapError(ctx, err, "Streaming unsupported")
	}

	s.streams.StreamOpened("order")
	defer s.streams.StreamClosed("order")

	return s.orderStream.Run(ctx.Request().Context(), orderID, sink)
}

// StreamFleet handles GET /api/v1/fleet/stream as an SSE channel.
func (s *Server) StreamFleet(ctx echo.Context) error {
	sink, err := newSSESink(ctx.Response())
	if err != nil {
		return s.mapError(ctx, err, "Streaming unsupported")
	}

	s.streams.StreamOpened("fleet")
	defer s.streams.StreamClosed("fleet")

	return s.fleetStream.Run(ctx.Request().Context(), sink)
}

// GetWorkerHealth handles GET /api/v1/workers/:worker/health.
func (s *Server) GetWorkerHealth(ctx echo.Context) error {
	query, err := queries.NewGetWorkerHealthQuery(ctx.Param("worker"), s.workerStaleAfter)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	health, err := s.healthQuery.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.mapError(ctx, err, "Failed to read worker health")
	}

	status := http.StatusOK
	if !health.Healthy {
		status = http.StatusServiceUnavailable
	}
	return ctx.JSON(status, health)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondTracking(ctx echo.Context, orderID kernel.UUID) error {
	query, err := queries.NewGetOrderTrackingQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	view, err := s.trackingQuery.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.mapError(ctx, err, "Failed to read order")
	}

	return ctx.JSON(http.StatusOK, view)
}

// mapError translates application errors to HTTP statuses. The fallback
// message is deliberately generic; raw errors never reach clients.
func (s *Server) mapError(ctx echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, errorResponse{
			Code:    http.StatusNotFound,
			Message: "Not found",
		})
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return badRequest(ctx, err.Error())
	default:
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: fallback,
		})
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func parseUUIDParam(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}
