package agrilens

import (
	"encoding/json"
	"time"

	"github.com/FrenchMajesty/agrilens/pkg/types"
	"github.com/FrenchMajesty/agrilens/utils/geo"
	"github.com/FrenchMajesty/agrilens/utils/status"
)

// Reading is a sensor sample reduced to the measurements the dashboard shows
type Reading struct {
	DeviceID  string
	Timestamp time.Time

	// Each measurement is nil when the device did not report it
	BatteryVoltage *float64
	SoilMoisture   *float64
	SoilPH         *float64
	Temperature    *float64

	Lat *float64
	Lon *float64
}

// ReadingFromSensor converts a backend reading. Temperature is the air temperature.
func ReadingFromSensor(s types.SensorReading) Reading {
	return Reading{
		DeviceID:       s.DeviceID,
		Timestamp:      s.Timestamp,
		BatteryVoltage: floatPtr(s.Battery),
		SoilMoisture:   floatPtr(s.SoilMoisture),
		SoilPH:         floatPtr(s.SoilPH),
		Temperature:    floatPtr(s.AirTemperature),
		Lat:            floatPtr(s.Latitude),
		Lon:            floatPtr(s.Longitude),
	}
}

// Point returns the reading's location, if it has one
func (r Reading) Point() (geo.Point, bool) {
	if r.Lat == nil || r.Lon == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *r.Lat, Lon: *r.Lon}, true
}

// Value returns the measurement a classifier kind reads
func (r Reading) Value(kind status.Kind) *float64 {
	switch kind {
	case status.KindBattery:
		return r.BatteryVoltage
	case status.KindSoilMoisture:
		return r.SoilMoisture
	case status.KindSoilPH:
		return r.SoilPH
	case status.KindTemperature:
		return r.Temperature
	}
	return nil
}

// Card is one formatted and classified measurement
type Card struct {
	Kind   status.Kind   `json:"kind"`
	Title  string        `json:"title"`
	Value  string        `json:"value"`
	Status status.Status `json:"status"`
	Color  status.Color  `json:"color"`
}

// Overview is everything the farm dashboard renders
type Overview struct {
	Farm     *types.Farm
	Stats    *types.FarmStats
	Readings []Reading

	// Latest is the most recent reading, nil when there are none
	Latest *Reading
	Cards  []Card

	// Prediction is the backend's latest prediction, nil when none exists yet
	Prediction json.RawMessage

	GeneratedAt time.Time
}

// NearestResult identifies the device closest to a farm's registered location
type NearestResult struct {
	DeviceID   string
	DistanceKm float64
	Reading    Reading
}

func floatPtr(n *types.Number) *float64 {
	if n == nil {
		return nil
	}
	f := n.Float()
	return &f
}
