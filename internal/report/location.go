// Package report defines the canonical location report shared between
// input mappers and output packet builders.
package report

import "time"

// Location is the canonical, protocol-agnostic location report produced
// by an input mapper and consumed by an output packet builder.
type Location struct {
	Timestamp    time.Time
	Latitude     float64
	Longitude    float64
	Satellites   int
	SpeedKmh     int
	Direction    int
	GPSFixed     bool
	AccStatus    bool
	GPSOdometer  uint32
	Voltage      float64
}

// IsZero reports whether l carries no usable coordinates. Input mappers
// return a zero Location when the upstream record is missing lat/lng.
func (l Location) IsZero() bool {
	return l.Latitude == 0 && l.Longitude == 0 && l.Timestamp.IsZero()
}
