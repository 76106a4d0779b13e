package kernel

import (
	"fmt"

	"kopikurir/internal/pkg/errs"
	"kopikurir/internal/pkg/guard"
)

const (
	// GeoLatMin is the minimum valid latitude in degrees.
	GeoLatMin = -90.0
	// GeoLatMax is the maximum valid latitude in degrees.
	GeoLatMax = 90.0
	// GeoLonMin is the minimum valid longitude in degrees.
	GeoLonMin = -180.0
	// GeoLonMax is the maximum valid longitude in degrees.
	GeoLonMax = 180.0
)

// ErrGeoPointIsNotConstructed is returned when using a GeoPoint that was not
// created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable value object holding a validated WGS84 coordinate
// pair. It is used for order destinations and courier location samples.
//
// The zero value is invalid and fails Validate - always construct through
// NewGeoPoint.
//
// Example:
//
//	dest, err := kernel.NewGeoPoint(-6.1754, 106.8272)
//	if err != nil {
//	    // handle out-of-range coordinates
//	}
type GeoPoint struct {
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint from latitude and longitude in degrees.
// Latitude must be within [-90, 90] and longitude within [-180, 180].
func NewGeoPoint(lat float64, lon float64) (GeoPoint, error) {
	if lat < GeoLatMin || lat > GeoLatMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("latitude", lat, GeoLatMin, GeoLatMax)
	}
	if lon < GeoLonMin || lon > GeoLonMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("longitude", lon, GeoLonMin, GeoLonMax)
	}

	return GeoPoint{
		lat:   lat,
		lon:   lon,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the GeoPoint was created through NewGeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lon returns the longitude in degrees.
func (p GeoPoint) Lon() float64 {
	return p.lon
}

// IsEqual reports whether two points hold identical coordinates.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.lat == other.lat && p.lon == other.lon
}

// String implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%f,%f)", p.lat, p.lon)
}
