package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	postgres_adapter "kopikurir/internal/adapters/out/postgres"
	"kopikurir/internal/adapters/out/postgres/courierrepo"
	"kopikurir/internal/adapters/out/postgres/locationrepo"
	"kopikurir/internal/adapters/out/postgres/messagerepo"
	"kopikurir/internal/adapters/out/postgres/orderrepo"
	"kopikurir/internal/adapters/out/postgres/workerrunrepo"
	"kopikurir/internal/core/domain/model/courier"
	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/order"
	"kopikurir/internal/core/domain/model/outbound"
	"kopikurir/internal/core/domain/model/tracking"
	"kopikurir/internal/core/ports"
	"kopikurir/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises the GORM-based Unit of Work and
// the repositories it hands out against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite starts a PostgreSQL container, connects, and migrates the schema.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&courierrepo.CourierDTO{},
		&locationrepo.LocationDTO{},
		&messagerepo.MessageDTO{},
		&workerrunrepo.WorkerRunDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE orders, couriers, courier_locations, outbound_messages, worker_runs").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up the PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWork_TransactionLifecycle verifies begin, commit, and rollback,
// including that repeated Begin calls are safe.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Repeated begin should be a no-op")

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)
}

// TestUnitOfWork_TransactionErrors verifies commit and rollback fail without
// an active transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().Error(uow.Commit(ctx))
	suite.Require().Error(uow.Rollback(ctx))
}

// TestUnitOfWork_OrderRoundTrip verifies an order committed through one unit
// of work is visible, with all lifecycle fields intact, through another.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OrderRoundTrip() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createDeliveryOrder(1)
	testCourier := createTestCourier("Budi")
	now := time.Now().UTC().Truncate(time.Second)
	suite.Require().NoError(testOrder.Assign(testCourier.ID(), now))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.CourierRepository().Add(ctx, testCourier))
	suite.Require().NoError(uow.Commit(ctx))

	retrieved, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())
	suite.Equal(testOrder.OrderNumber(), retrieved.OrderNumber())
	suite.Equal(order.Confirmed, retrieved.Status())
	suite.Require().NotNil(retrieved.Courier())
	suite.Equal(testCourier.ID(), *retrieved.Courier())
	suite.Require().NotNil(retrieved.AssignedAt())
	suite.Equal(testOrder.Version(), retrieved.Version())
}

// TestUnitOfWork_OrderRollbackDiscardsChanges verifies rollback undoes writes
// across multiple repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OrderRollbackDiscardsChanges() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createDeliveryOrder(2)
	testCourier := createTestCourier("Sari")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.CourierRepository().Add(ctx, testCourier))
	suite.Require().NoError(uow.Rollback(ctx))

	newUow := suite.factory.Create()
	_, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = newUow.CourierRepository().Get(ctx, testCourier.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// TestUnitOfWork_VersionConflict verifies a stale aggregate loses the write
// race: the second update based on an outdated version matches no row and
// fails with a version error.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_VersionConflict() {
	ctx := context.Background()
	now := time.Now().UTC()

	testOrder := createDeliveryOrder(3)
	seedUow := suite.factory.Create()
	suite.Require().NoError(seedUow.OrderRepository().Add(ctx, testOrder))

	// Two units of work load the same version of the order.
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	loaded1, err := uow1.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	loaded2, err := uow2.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	// The first writer wins.
	suite.Require().NoError(loaded1.Apply(order.EventStartProcessing, now))
	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow1.OrderRepository().Update(ctx, loaded1))
	suite.Require().NoError(uow1.Commit(ctx))

	// The second writer holds a stale version and must be rejected.
	suite.Require().NoError(loaded2.Apply(order.EventStartProcessing, now))
	suite.Require().NoError(uow2.Begin(ctx))
	err = uow2.OrderRepository().Update(ctx, loaded2)
	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
	suite.Require().NoError(uow2.Rollback(ctx))

	// A fresh read sees exactly one applied transition.
	retrieved, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Processing, retrieved.Status())
	suite.Equal(loaded1.Version(), retrieved.Version())
}

// TestUnitOfWork_GetAllAssignable verifies the assignment scan picks up only
// unassigned delivery orders in assignable statuses, oldest number first.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_GetAllAssignable() {
	ctx := context.Background()
	now := time.Now().UTC()
	uow := suite.factory.Create()
	repo := uow.OrderRepository()

	assignable2 := createDeliveryOrder(20)
	assignable1 := createDeliveryOrder(10)

	pending := createPendingDeliveryOrder(30)

	assigned := createDeliveryOrder(40)
	someCourier := createTestCourier("Dewi")
	suite.Require().NoError(assigned.Assign(someCourier.ID(), now))

	pickup := createPickupOrder(50)

	// Admin force-status can leave an order delivering with no courier
	// bound; the scan must still pick it up.
	delivering := createDeliveringOrderWithoutCourier(15)

	for _, o := range []*order.Order{assignable2, assignable1, pending, assigned, pickup, delivering} {
		suite.Require().NoError(repo.Add(ctx, o))
	}
	suite.Require().NoError(uow.CourierRepository().Add(ctx, someCourier))

	orders, err := suite.factory.Create().OrderRepository().GetAllAssignable(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(orders, 3)
	suite.Equal(assignable1.OrderNumber(), orders[0].OrderNumber())
	suite.Equal(delivering.OrderNumber(), orders[1].OrderNumber())
	suite.Equal(assignable2.OrderNumber(), orders[2].OrderNumber())
}

// TestUnitOfWork_CourierDerivedLoad verifies the courier repository computes
// the active-order count from bound orders in active-delivery statuses.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CourierDerivedLoad() {
	ctx := context.Background()
	now := time.Now().UTC()
	uow := suite.factory.Create()

	testCourier := createTestCourier("Agus")
	suite.Require().NoError(testCourier.SetStatus(courier.StatusAvailable))
	suite.Require().NoError(uow.CourierRepository().Add(ctx, testCourier))

	// Two active deliveries and one cancelled order bound to the courier.
	for i, terminal := range []bool{false, false, true} {
		o := createDeliveryOrder(100+i)
		suite.Require().NoError(o.Assign(testCourier.ID(), now))
		if terminal {
			suite.Require().NoError(o.Apply(order.EventCancel, now))
		}
		suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	}

	retrieved, err := suite.factory.Create().CourierRepository().Get(ctx, testCourier.ID())
	suite.Require().NoError(err)
	suite.Equal(2, retrieved.ActiveOrders(), "Terminal orders should not count toward load")

	selectable, err := suite.factory.Create().CourierRepository().GetAllSelectable(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(selectable, 1)
	suite.Equal(2, selectable[0].ActiveOrders())
}

// TestUnitOfWork_SelectableExcludesSuspendedAndOffline verifies the
// assignment scan never sees suspended or offline couriers.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_SelectableExcludesSuspendedAndOffline() {
	ctx := context.Background()
	uow := suite.factory.Create()
	repo := uow.CourierRepository()

	available := createTestCourier("Available")
	suite.Require().NoError(available.SetStatus(courier.StatusAvailable))

	offline := createTestCourier("Offline")

	suspended := createTestCourier("Suspended")
	suite.Require().NoError(suspended.SetStatus(courier.StatusAvailable))
	suspended.Suspend()

	for _, c := range []*courier.Courier{available, offline, suspended} {
		suite.Require().NoError(repo.Add(ctx, c))
	}

	selectable, err := suite.factory.Create().CourierRepository().GetAllSelectable(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(selectable, 1)
	suite.Equal(available.ID(), selectable[0].ID())
}

// TestUnitOfWork_LocationUpsert verifies repeated pings from the same courier
// keep a single latest row.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_LocationUpsert() {
	ctx := context.Background()
	uow := suite.factory.Create()
	repo := uow.LocationRepository()

	courierID := kernel.NewUUID()
	first := createLocationSample(courierID, -6.2001, 106.8001,
		time.Now().UTC().Add(-time.Minute))
	second := createLocationSample(courierID, -6.2100, 106.8100,
		time.Now().UTC())

	suite.Require().NoError(repo.Upsert(ctx, &first))
	suite.Require().NoError(repo.Upsert(ctx, &second))

	retrieved, err := suite.factory.Create().LocationRepository().GetByCourier(ctx, courierID)
	suite.Require().NoError(err)
	suite.InDelta(-6.2100, retrieved.Point().Lat(), 1e-9)
	suite.InDelta(106.8100, retrieved.Point().Lon(), 1e-9)

	var count int64
	suite.Require().NoError(suite.db.Table("courier_locations").Count(&count).Error)
	suite.EqualValues(1, count, "Upsert should keep one row per courier")
}

// TestUnitOfWork_MessageWorkerScans verifies the reconciliation and resend
// scans pick up exactly the messages the worker must process.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_MessageWorkerScans() {
	ctx := context.Background()
	now := time.Now().UTC()
	uow := suite.factory.Create()
	repo := uow.MessageRepository()

	sent := createTestMessage("+628111111111")
	suite.Require().NoError(sent.MarkSent("SM-1"))

	delivered := createTestMessage("+628122222222")
	suite.Require().NoError(delivered.MarkSent("SM-2"))
	_, err := delivered.ReconcileProviderStatus(outbound.StatusDelivered)
	suite.Require().NoError(err)

	due := createTestMessage("+628133333333")
	due.MarkResendFailed("gateway timeout")
	suite.Require().NoError(due.ScheduleRetry(now.Add(-time.Hour), time.Minute))

	notDueYet := createTestMessage("+628144444444")
	notDueYet.MarkResendFailed("gateway timeout")
	suite.Require().NoError(notDueYet.ScheduleRetry(now, time.Hour))

	for _, m := range []*outbound.Message{sent, delivered, due, notDueYet} {
		suite.Require().NoError(repo.Add(ctx, m))
	}

	readRepo := suite.factory.Create().MessageRepository()

	needing, err := readRepo.GetAllNeedingReconciliation(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(needing, 1, "Only the sent message has a provider status to poll")
	suite.Equal(sent.ID(), needing[0].ID())

	dueNow, err := readRepo.GetAllDueForResend(ctx, now)
	suite.Require().NoError(err)
	suite.Require().Len(dueNow, 1)
	suite.Equal(due.ID(), dueNow[0].ID())

	backlog, err := readRepo.CountRetryBacklog(ctx)
	suite.Require().NoError(err)
	suite.EqualValues(2, backlog)
}

// TestUnitOfWork_WorkerRunRecord verifies run records persist and GetLastRun
// returns the most recent one.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WorkerRunRecord() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	uow := suite.factory.Create()
	repo := uow.WorkerRunRepository()

	older := ports.WorkerRun{
		WorkerName: "outbound_reliability",
		StartedAt:  now.Add(-10 * time.Minute),
		FinishedAt: now.Add(-10 * time.Minute),
		Succeeded:  false,
		Failed:     3,
	}
	newer := ports.WorkerRun{
		WorkerName: "outbound_reliability",
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
		Succeeded:  true,
		Reconciled: 2,
		Resent:     1,
	}
	suite.Require().NoError(repo.Record(ctx, older))
	suite.Require().NoError(repo.Record(ctx, newer))

	last, err := suite.factory.Create().WorkerRunRepository().GetLastRun(ctx, "outbound_reliability")
	suite.Require().NoError(err)
	suite.True(last.Succeeded)
	suite.Equal(2, last.Reconciled)
	suite.Equal(1, last.Resent)
	suite.True(last.FinishedAt.Equal(now))

	// The trailing-window sum only counts cycles finished inside the window.
	inWindow, err := suite.factory.Create().WorkerRunRepository().
		CountFailedSince(ctx, "outbound_reliability", now.Add(-5*time.Minute))
	suite.Require().NoError(err)
	suite.Equal(int64(0), inWindow)

	wholeHistory, err := suite.factory.Create().WorkerRunRepository().
		CountFailedSince(ctx, "outbound_reliability", now.Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Equal(int64(3), wholeHistory)
}

// createDeliveryOrder creates a confirmed delivery order ready for assignment.
func createDeliveryOrder(n int) *order.Order {
	o := createPendingDeliveryOrder(n)
	_ = o.Apply(order.EventConfirm, time.Now().UTC())
	return o
}

// createPendingDeliveryOrder creates a delivery order as checkout produced it.
func createPendingDeliveryOrder(n int) *order.Order {
	dest, _ := kernel.NewGeoPoint(-6.1751, 106.8650)
	o, _ := order.NewOrder(kernel.NewUUID(),
		fmt.Sprintf("KK-20260828-%04d", n), order.DeliveryTypeDelivery, &dest, "qris")
	return o
}

// createDeliveringOrderWithoutCourier restores a delivery order forced into
// delivering with no courier bound.
func createDeliveringOrderWithoutCourier(n int) *order.Order {
	dest, _ := kernel.NewGeoPoint(-6.1751, 106.8650)
	o, _ := order.RestoreOrder(kernel.NewUUID(),
		fmt.Sprintf("KK-20260828-%04d", n), order.Delivering,
		order.DeliveryTypeDelivery, nil, nil, nil, nil, nil, &dest, "qris", "paid", 1)
	return o
}

// createPickupOrder creates a confirmed counter-pickup order.
func createPickupOrder(n int) *order.Order {
	o, _ := order.NewOrder(kernel.NewUUID(),
		fmt.Sprintf("KK-20260828-%04d", n), order.DeliveryTypePickup, nil, "cash")
	_ = o.Apply(order.EventConfirm, time.Now().UTC())
	return o
}

// createTestCourier creates an active courier that starts offline.
func createTestCourier(name string) *courier.Courier {
	c, _ := courier.NewCourier(kernel.NewUUID(), name, "+628100000000")
	return c
}

// createLocationSample creates a GPS ping for the given courier.
func createLocationSample(courierID kernel.UUID, lat, lon float64, at time.Time) tracking.LocationSample {
	point, _ := kernel.NewGeoPoint(lat, lon)
	sample, _ := tracking.NewLocationSample(courierID, point, 5, 3, at)
	return sample
}

// createTestMessage creates a queued outbound SMS.
func createTestMessage(to string) *outbound.Message {
	m, _ := outbound.NewMessage(kernel.NewUUID(), "twilio", to,
		"Pesanan Anda sedang diantar", 3, time.Now().UTC())
	return m
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
