// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"kopikurir/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// LocationRepoFactory provides access to the location repository within a transaction.
	LocationRepoFactory interface {
		LocationRepository() ports.LocationRepository
	}

	// MessageRepoFactory provides access to the outbound message repository within a transaction.
	MessageRepoFactory interface {
		MessageRepository() ports.MessageRepository
	}

	// WorkerRunRepoFactory provides access to the worker run repository within a transaction.
	WorkerRunRepoFactory interface {
		WorkerRunRepository() ports.WorkerRunRepository
	}

	// OrderUoW manages transactions for order-only operations, such as
	// lifecycle transitions requested by couriers.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// AssignUoW manages transactions that bind orders to couriers. Both
	// aggregates change together, so they share one transaction.
	AssignUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
	}

	// AssignUoWFactory creates new assignment unit of work instances.
	AssignUoWFactory interface {
		Create() AssignUoW
	}

	// TrackingUoW manages transactions for courier location pings.
	TrackingUoW interface {
		TxManager
		CourierRepoFactory
		LocationRepoFactory
	}

	// TrackingUoWFactory creates new tracking unit of work instances.
	TrackingUoWFactory interface {
		Create() TrackingUoW
	}

	// MessageUoW manages transactions for enqueuing outbound messages.
	MessageUoW interface {
		TxManager
		MessageRepoFactory
	}

	// MessageUoWFactory creates new message unit of work instances.
	MessageUoWFactory interface {
		Create() MessageUoW
	}

	// WorkerUoW manages transactions for the outbound reliability worker,
	// which touches both messages and its own run records.
	WorkerUoW interface {
		TxManager
		MessageRepoFactory
		WorkerRunRepoFactory
	}

	// WorkerUoWFactory creates new worker unit of work instances.
	WorkerUoWFactory interface {
		Create() WorkerUoW
	}
)
