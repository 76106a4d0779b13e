package cmd

import (
	"log/slog"
	"time"

	httpadapter "kopikurir/internal/adapters/in/http"
	"kopikurir/internal/adapters/out/postgres"
	"kopikurir/internal/broadcast"
	"kopikurir/internal/core/application/usecases/commands"
	"kopikurir/internal/core/application/usecases/queries"
	"kopikurir/internal/core/domain/services"
	"kopikurir/internal/core/ports"
	"kopikurir/internal/jobs"
	"kopikurir/internal/observability"

	"gorm.io/gorm"
)

// CompositionRoot builds and wires every component of the application.
// The selector, lock, provider and metrics are created once and shared:
// the round-robin cursor in particular must survive across sweeps.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	selector   *services.CourierSelector
	lock       ports.AdvisoryLock
	provider   ports.SMSProvider
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewCompositionRoot wires the shared infrastructure for the given
// configuration.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	provider ports.SMSProvider,
	logger *slog.Logger,
) *CompositionRoot {
	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		selector:   services.NewCourierSelector(),
		lock:       postgres.NewPgAdvisoryLock(gormDB),
		provider:   provider,
		metrics:    observability.NewMetrics(),
		logger:     logger,
	}
}

// Metrics exposes the shared collectors, e.g. for the /metrics route.
func (c *CompositionRoot) Metrics() *observability.Metrics {
	return c.metrics
}

func (c *CompositionRoot) CreateRequestTransitionCommandHandler() commands.RequestTransitionCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestTransitionCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateAssignCouriersCommandHandler() commands.AssignCouriersCommandHandler {
	var f commands.AssignUoWFactory = FuncAssignUoWFactory(func() commands.AssignUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignCouriersCommandHandler(f, c.selector, c.metrics)
}

func (c *CompositionRoot) CreateReassignOrderCommandHandler() commands.ReassignOrderCommandHandler {
	var f commands.AssignUoWFactory = FuncAssignUoWFactory(func() commands.AssignUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReassignOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateRecordLocationCommandHandler() commands.RecordLocationCommandHandler {
	var f commands.TrackingUoWFactory = FuncTrackingUoWFactory(func() commands.TrackingUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordLocationCommandHandler(f)
}

func (c *CompositionRoot) CreateEnqueueMessageCommandHandler() commands.EnqueueMessageCommandHandler {
	var f commands.MessageUoWFactory = FuncMessageUoWFactory(func() commands.MessageUoW {
		return c.uowFactory.Create()
	})
	return commands.NewEnqueueMessageCommandHandler(f, c.provider)
}

func (c *CompositionRoot) CreateProcessOutboundMessagesCommandHandler() commands.ProcessOutboundMessagesCommandHandler {
	var f commands.WorkerUoWFactory = FuncWorkerUoWFactory(func() commands.WorkerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProcessOutboundMessagesCommandHandler(
		f, c.provider, c.lock, c.metrics, c.logger,
		c.config.WorkerLockWait, c.config.MessageBackoffBase,
		commands.WorkerThresholds{
			FailureWindow: c.config.WorkerFailureWindow,
			MaxFailures:   c.config.WorkerFailureThreshold,
			MaxBacklog:    c.config.WorkerBacklogThreshold,
		})
}

func (c *CompositionRoot) CreateGetOrderTrackingQueryHandler() queries.GetOrderTrackingQueryHandler {
	return queries.NewGetOrderTrackingQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetFleetSnapshotQueryHandler() queries.GetFleetSnapshotQueryHandler {
	return queries.NewGetFleetSnapshotQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetWorkerHealthQueryHandler() queries.GetWorkerHealthQueryHandler {
	return queries.NewGetWorkerHealthQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateOrderStream() *broadcast.OrderStream {
	trackingQuery := c.CreateGetOrderTrackingQueryHandler()
	return broadcast.NewOrderStream(trackingQuery,
		durationOr(c.config.OrderStreamInterval, broadcast.DefaultOrderStreamInterval),
		durationOr(c.config.OrderStreamLifetime, broadcast.DefaultOrderStreamLifetime),
		c.logger)
}

func (c *CompositionRoot) CreateFleetStream() *broadcast.FleetStream {
	fleetQuery := c.CreateGetFleetSnapshotQueryHandler()
	return broadcast.NewFleetStream(fleetQuery,
		durationOr(c.config.FleetStreamInterval, broadcast.DefaultFleetStreamInterval),
		durationOr(c.config.FleetStreamLifetime, broadcast.DefaultFleetStreamLifetime),
		c.logger)
}

// CreateServer assembles the HTTP adapter over all use cases and streams.
func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateRequestTransitionCommandHandler(),
		c.CreateAssignCouriersCommandHandler(),
		c.CreateReassignOrderCommandHandler(),
		c.CreateRecordLocationCommandHandler(),
		c.CreateEnqueueMessageCommandHandler(),
		c.CreateGetOrderTrackingQueryHandler(),
		c.CreateGetFleetSnapshotQueryHandler(),
		c.CreateGetWorkerHealthQueryHandler(),
		c.CreateOrderStream(),
		c.CreateFleetStream(),
		c.metrics,
		c.metrics.Handler(),
		c.config.WorkerStaleAfter,
	)
}

// CreateJobManager assembles the background jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	sweepSchedule := c.config.AssignmentSweepSchedule
	if sweepSchedule == "" {
		sweepSchedule = jobs.DefaultAssignmentSweepSchedule
	}
	outboundSchedule := c.config.OutboundWorkerSchedule
	if outboundSchedule == "" {
		outboundSchedule = jobs.DefaultOutboundReliabilitySchedule
	}

	return jobs.NewJobManager(
		c.CreateAssignCouriersCommandHandler(),
		c.CreateProcessOutboundMessagesCommandHandler(),
		sweepSchedule,
		outboundSchedule,
		c.logger,
	)
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAssignUoWFactory func() commands.AssignUoW

func (f FuncAssignUoWFactory) Create() commands.AssignUoW {
	return f()
}

type FuncTrackingUoWFactory func() commands.TrackingUoW

func (f FuncTrackingUoWFactory) Create() commands.TrackingUoW {
	return f()
}

type FuncMessageUoWFactory func() commands.MessageUoW

func (f FuncMessageUoWFactory) Create() commands.MessageUoW {
	return f()
}

type FuncWorkerUoWFactory func() commands.WorkerUoW

func (f FuncWorkerUoWFactory) Create() commands.WorkerUoW {
	return f()
}
