// Package geo holds coordinates and great-circle distance.
package geo

import (
	"fmt"
	"math"
)

// EarthRadius is the mean radius of the Earth in metres.
const EarthRadius float64 = 6371e3

// Unset is the sentinel stored for a latitude or longitude that was never
// captured.
const Unset = 1000.0

// Metres per statute mile.
const Mile = 1609.34

// Coordinate is a WGS84 position in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UnsetCoordinate returns the sentinel coordinate.
func UnsetCoordinate() Coordinate {
	return Coordinate{Latitude: Unset, Longitude: Unset}
}

// IsSet reports whether c holds a real position.
func (c Coordinate) IsSet() bool {
	if c.Latitude == Unset || c.Longitude == Unset {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Key renders c at 4 decimal places, the precision the timetable provider is
// queried with.
func (c Coordinate) Key() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", c.Latitude, c.Longitude)
}

// Distance computes the haversine distance between a and b in metres.
// See http://www.movable-type.co.uk/scripts/latlong.html
func Distance(a, b Coordinate) float64 {
	lat1 := degToRad(a.Latitude)
	lat2 := degToRad(b.Latitude)
	dLat := lat2 - lat1
	dLon := degToRad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadius * c
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
