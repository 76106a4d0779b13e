// Package tracking models courier GPS location samples. Only the most recent
// sample per courier is authoritative; the broadcast path never reads older
// history.
package tracking

import (
	"errors"
	"time"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/pkg/guard"
)

// ErrLocationSampleIsNotConstructed is returned when using an improperly
// initialized LocationSample.
var ErrLocationSampleIsNotConstructed = errors.New(
	"LocationSample must be created via NewLocationSample")

// LocationSample is one GPS ping from a courier device. Samples are
// append-only from this subsystem's perspective: the location store upserts
// the latest sample per courier and never deletes.
type LocationSample struct {
	courierID kernel.UUID
	point     kernel.GeoPoint
	// accuracy is the device-reported horizontal accuracy in meters
	accuracy float64
	// speed is the device-reported ground speed in m/s
	speed     float64
	updatedAt time.Time

	guard guard.ConstructorGuard
}

// NewLocationSample creates a sample from a courier app ping.
func NewLocationSample(
	courierID kernel.UUID,
	point kernel.GeoPoint,
	accuracy float64,
	speed float64,
	updatedAt time.Time,
) (LocationSample, error) {
	if err := errors.Join(courierID.Validate(), point.Validate()); err != nil {
		return LocationSample{}, err
	}

	return LocationSample{
		courierID: courierID,
		point:     point,
		accuracy:  accuracy,
		speed:     speed,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the sample was created via NewLocationSample.
func (s LocationSample) Validate() error {
	return s.guard.Validate(ErrLocationSampleIsNotConstructed)
}

// CourierID returns the courier the sample belongs to.
func (s LocationSample) CourierID() kernel.UUID { return s.courierID }

// Point returns the sampled coordinates.
func (s LocationSample) Point() kernel.GeoPoint { return s.point }

// Accuracy returns the horizontal accuracy in meters.
func (s LocationSample) Accuracy() float64 { return s.accuracy }

// Speed returns the ground speed in m/s.
func (s LocationSample) Speed() float64 { return s.speed }

// UpdatedAt returns when the device captured the sample.
func (s LocationSample) UpdatedAt() time.Time { return s.updatedAt }

// IsNewerThan reports whether this sample supersedes the given timestamp.
// The broadcast path uses it to decide between a location event and a ping.
func (s LocationSample) IsNewerThan(t time.Time) bool {
	return s.updatedAt.After(t)
}
