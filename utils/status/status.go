// Package status buckets telemetry readings into named categories with a colour token.
//
// Every classifier is a total function: NaN and -Inf land in the lowest bucket,
// +Inf in the highest. Status and Color values form closed vocabularies; callers
// should switch on the constants rather than compare free-form strings.
package status

import (
	"fmt"
	"math"
	"strings"
)

// Status is a named bucket produced by a classifier
type Status string

const (
	// Battery
	Low    Status = "low"
	Medium Status = "medium"
	High   Status = "high"

	// Soil moisture
	VeryDry Status = "very dry"
	Dry     Status = "dry"
	Moist   Status = "moist"
	Wet     Status = "wet"

	// Soil pH
	Acidic           Status = "acidic"
	SlightlyAcidic   Status = "slightly acidic"
	SlightlyAlkaline Status = "slightly alkaline"
	Alkaline         Status = "alkaline"

	// Temperature
	Cold Status = "cold"
	Cool Status = "cool"
	Warm Status = "warm"
	Hot  Status = "hot"

	// Shared by moisture, pH and temperature
	Optimal Status = "optimal"
)

// Color is a presentation hint decoupled from any rendering technology
type Color string

const (
	Red    Color = "red"
	Orange Color = "orange"
	Yellow Color = "yellow"
	Green  Color = "green"
	Cyan   Color = "cyan"
	Blue   Color = "blue"
	Purple Color = "purple"
)

// TextClass renders the token as a utility text class, e.g. "text-green-500"
func (c Color) TextClass() string {
	return "text-" + string(c) + "-500"
}

// Result is the outcome of classifying one reading
type Result struct {
	Status Status `json:"status"`
	Color  Color  `json:"color"`
}

func (r Result) String() string {
	return fmt.Sprintf("%s (%s)", r.Status, r.Color)
}

// Thresholds, in the unit of each classifier.
const (
	BatteryMediumVolts = 3.3
	BatteryHighVolts   = 3.7

	MoistureDryPercent     = 20.0
	MoistureOptimalPercent = 40.0
	MoistureMoistPercent   = 60.0
	MoistureWetPercent     = 80.0

	PHSlightlyAcidic = 6.0
	PHOptimal        = 6.5
	PHOptimalMax     = 7.5
	PHSlightlyAlkMax = 8.0

	TempCoolCelsius       = 10.0
	TempOptimalCelsius    = 20.0
	TempOptimalMaxCelsius = 30.0
	TempWarmMaxCelsius    = 35.0
)

// Battery classifies a battery voltage.
func Battery(volts float64) Result {
	switch {
	case math.IsNaN(volts):
		return Result{Low, Red}
	case volts >= BatteryHighVolts:
		return Result{High, Green}
	case volts >= BatteryMediumVolts:
		return Result{Medium, Yellow}
	}
	return Result{Low, Red}
}

// SoilMoisture classifies a volumetric soil moisture percentage.
func SoilMoisture(percent float64) Result {
	switch {
	case math.IsNaN(percent), percent < MoistureDryPercent:
		return Result{VeryDry, Red}
	case percent < MoistureOptimalPercent:
		return Result{Dry, Orange}
	case percent < MoistureMoistPercent:
		return Result{Optimal, Green}
	case percent < MoistureWetPercent:
		return Result{Moist, Blue}
	}
	return Result{Wet, Purple}
}

// SoilPH classifies a soil pH reading. The optimal range includes 7.5 and the
// slightly alkaline range includes 8.0.
func SoilPH(ph float64) Result {
	switch {
	case math.IsNaN(ph), ph < PHSlightlyAcidic:
		return Result{Acidic, Red}
	case ph < PHOptimal:
		return Result{SlightlyAcidic, Orange}
	case ph <= PHOptimalMax:
		return Result{Optimal, Green}
	case ph <= PHSlightlyAlkMax:
		return Result{SlightlyAlkaline, Yellow}
	}
	return Result{Alkaline, Red}
}

// Temperature classifies an air or soil temperature in degrees Celsius. The
// optimal range includes 30 and the warm range includes 35.
func Temperature(celsius float64) Result {
	switch {
	case math.IsNaN(celsius), celsius < TempCoolCelsius:
		return Result{Cold, Blue}
	case celsius < TempOptimalCelsius:
		return Result{Cool, Cyan}
	case celsius <= TempOptimalMaxCelsius:
		return Result{Optimal, Green}
	case celsius <= TempWarmMaxCelsius:
		return Result{Warm, Orange}
	}
	return Result{Hot, Red}
}

// Kind names a classifier
type Kind string

const (
	KindBattery      Kind = "battery"
	KindSoilMoisture Kind = "soil_moisture"
	KindSoilPH       Kind = "soil_ph"
	KindTemperature  Kind = "temperature"
)

// Kinds lists every classifier in display order
var Kinds = []Kind{KindBattery, KindSoilMoisture, KindSoilPH, KindTemperature}

// ParseKind accepts the canonical kind names plus a few common aliases
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "battery", "battery_voltage":
		return KindBattery, nil
	case "soil_moisture", "moisture":
		return KindSoilMoisture, nil
	case "soil_ph", "ph":
		return KindSoilPH, nil
	case "temperature", "temp":
		return KindTemperature, nil
	}
	return "", fmt.Errorf("unknown classifier %q", s)
}

// Classify dispatches value to the classifier for kind
func Classify(kind Kind, value float64) (Result, error) {
	switch kind {
	case KindBattery:
		return Battery(value), nil
	case KindSoilMoisture:
		return SoilMoisture(value), nil
	case KindSoilPH:
		return SoilPH(value), nil
	case KindTemperature:
		return Temperature(value), nil
	}
	return Result{}, fmt.Errorf("unknown classifier %q", kind)
}
