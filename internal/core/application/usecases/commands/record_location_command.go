package commands

import (
	"errors"
	"time"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/pkg/guard"
)

var ErrRecordLocationCommandIsNotConstructed = errors.New(
	"RecordLocationCommand must be created via NewRecordLocationCommand constructor",
)

// RecordLocationCommand carries one GPS ping from a courier app.
type RecordLocationCommand struct {
	courierID kernel.UUID
	point     kernel.GeoPoint
	accuracy  float64
	speed     float64
	pingedAt  time.Time

	guard guard.ConstructorGuard
}

// NewRecordLocationCommand creates a validated location ping.
func NewRecordLocationCommand(
	courierID kernel.UUID,
	point kernel.GeoPoint,
	accuracy, speed float64,
	pingedAt time.Time,
) (RecordLocationCommand, error) {
	if err := errors.Join(courierID.Validate(), point.Validate()); err != nil {
		return RecordLocationCommand{}, err
	}

	return RecordLocationCommand{
		courierID: courierID,
		point:     point,
		accuracy:  accuracy,
		speed:     speed,
		pingedAt:  pingedAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// CourierID returns the reporting courier identifier.
func (c *RecordLocationCommand) CourierID() kernel.UUID { return c.courierID }

// Point returns the reported position.
func (c *RecordLocationCommand) Point() kernel.GeoPoint { return c.point }

// Accuracy returns the reported accuracy in meters.
func (c *RecordLocationCommand) Accuracy() float64 { return c.accuracy }

// Speed returns the reported speed in meters per second.
func (c *RecordLocationCommand) Speed() float64 { return c.speed }

// PingedAt returns the client timestamp of the ping.
func (c *RecordLocationCommand) PingedAt() time.Time { return c.pingedAt }

// Validate ensures the command was created through the constructor.
func (c *RecordLocationCommand) Validate() error {
	return c.guard.Validate(
		ErrRecordLocationCommandIsNotConstructed,
	)
}
