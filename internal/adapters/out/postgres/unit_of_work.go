// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern. A unit of work owns one database transaction and hands out
// repositories bound to it, so a business operation either commits all of its
// changes or none of them.
//
// Besides transaction control the unit of work tracks the version each order
// aggregate had when it was loaded. Order updates are made conditional on
// that version, which turns concurrent writes into detectable conflicts
// instead of silent lost updates.
package postgres

import (
	"context"

	"kopikurir/internal/adapters/out/postgres/courierrepo"
	"kopikurir/internal/adapters/out/postgres/locationrepo"
	"kopikurir/internal/adapters/out/postgres/messagerepo"
	"kopikurir/internal/adapters/out/postgres/orderrepo"
	"kopikurir/internal/adapters/out/postgres/workerrunrepo"
	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using a shared GORM
// database connection. Each business operation gets a fresh instance with its
// own transaction state.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:             f.db,
		loadedVersions: make(map[string]int),
	}
}

// GormUnitOfWork coordinates one database transaction across the
// repositories. Repositories obtained before Begin run on the main
// connection; after Begin they run inside the transaction.
type GormUnitOfWork struct {
	db             *gorm.DB
	tx             *gorm.DB
	loadedVersions map[string]int
}

// Begin starts the transaction. Calling Begin when a transaction is already
// open is a no-op rather than a nested transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction. The unit of work cannot be reused after.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. The unit of work cannot be reused after.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// OrderRepository returns an order repository bound to the current
// transaction and to this unit of work's version tracking.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// CourierRepository returns a courier repository bound to the current
// transaction.
func (uow *GormUnitOfWork) CourierRepository() ports.CourierRepository {
	return courierrepo.NewGormCourierRepository(uow.conn())
}

// LocationRepository returns a location repository bound to the current
// transaction.
func (uow *GormUnitOfWork) LocationRepository() ports.LocationRepository {
	return locationrepo.NewGormLocationRepository(uow.conn())
}

// MessageRepository returns a message repository bound to the current
// transaction.
func (uow *GormUnitOfWork) MessageRepository() ports.MessageRepository {
	return messagerepo.NewGormMessageRepository(uow.conn())
}

// WorkerRunRepository returns a worker run repository bound to the current
// transaction.
func (uow *GormUnitOfWork) WorkerRunRepository() ports.WorkerRunRepository {
	return workerrunrepo.NewGormWorkerRunRepository(uow.conn())
}

// TrackLoadedVersion remembers the version an aggregate had when it was read
// within this unit of work.
func (uow *GormUnitOfWork) TrackLoadedVersion(id kernel.UUID, version int) {
	uow.loadedVersions[id.String()] = version
}

// LoadedVersion returns the tracked load-time version of an aggregate.
func (uow *GormUnitOfWork) LoadedVersion(id kernel.UUID) (int, bool) {
	version, ok := uow.loadedVersions[id.String()]
	return version, ok
}
