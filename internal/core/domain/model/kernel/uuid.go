package kernel

import (
	"fmt"

	"kopikurir/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID identifies orders, couriers and outbound messages. It wraps
// github.com/google/uuid so aggregates never depend on the library directly.
//
// The zero value is invalid; construct through one of the factory functions
// and check with Validate in aggregate constructors:
//
//	func NewCourier(id kernel.UUID, ...) (*Courier, error) {
//	    if err := id.Validate(); err != nil {
//	        return nil, err
//	    }
//	    ...
//	}
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random version 4 UUID. This is how every new aggregate
// gets its identity.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the canonical text form, as received in route
// parameters and request bodies.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUID{id: id}, nil
}

// UUIDFromBytes reconstructs a UUID from the 16-byte binary form the
// postgres adapters persist. A nil UUID round-tripped from storage is
// rejected, not silently accepted.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}

	restored := UUID{id: id}
	if err := restored.Validate(); err != nil {
		return UUID{}, err
	}
	return restored, nil
}

// String returns the canonical "xxxxxxxx-xxxx-..." text form.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes exposes the underlying value for persistence. The postgres DTOs are
// the only intended callers.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether both UUIDs hold the same value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate returns ErrUUIDIsNotConstructed for the zero value.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
