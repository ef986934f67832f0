package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Number is a measurement that the backend may encode either as a JSON
// number or as a decimal string. Use *Number for optional fields.
type Number float64

// Float returns the value as a float64
func (n Number) Float() float64 {
	return float64(n)
}

// UnmarshalJSON accepts 12.5 and "12.5"
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", string(data), err)
	}
	*n = Number(f)
	return nil
}

// Ptr returns a pointer to a Number holding f
func Ptr(f float64) *Number {
	n := Number(f)
	return &n
}

// Role is a user's role on the platform
type Role string

const (
	RoleFarmer     Role = "farmer"
	RoleAgronomist Role = "agronomist"
	RoleAdmin      Role = "admin"
)

// User is an authenticated platform user
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	Region    string    `json:"region,omitempty"`
	Language  string    `json:"language"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Token is the bearer token returned by the login endpoint
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role,omitempty"`
	Region   string `json:"region,omitempty"`
	Language string `json:"language,omitempty"`
}

// Farm is a registered farm
type Farm struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	Name                string    `json:"name"`
	Latitude            Number    `json:"latitude"`
	Longitude           Number    `json:"longitude"`
	AreaHa              Number    `json:"area_ha"`
	CropType            string    `json:"crop_type"`
	SoilType            string    `json:"soil_type,omitempty"`
	PlantingDate        string    `json:"planting_date,omitempty"`
	ExpectedHarvestDate string    `json:"expected_harvest_date,omitempty"`
	Devices             []Device  `json:"devices,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Device is an IoT sensor node installed on a farm
type Device struct {
	ID                  string     `json:"id"`
	DeviceID            string     `json:"device_id"`
	FarmID              string     `json:"farm_id"`
	DeviceModel         string     `json:"device_model"`
	FirmwareVersion     string     `json:"firmware_version,omitempty"`
	LocationDescription string     `json:"location_description,omitempty"`
	Status              string     `json:"status"`
	BatteryLevel        string     `json:"battery_level,omitempty"`
	LastSeen            *time.Time `json:"last_seen,omitempty"`
}

// SensorReading is one telemetry sample. Every measurement is optional.
type SensorReading struct {
	ID              string    `json:"id,omitempty"`
	DeviceID        string    `json:"device_id"`
	FarmID          string    `json:"farm_id"`
	Timestamp       time.Time `json:"timestamp"`
	Latitude        *Number   `json:"latitude,omitempty"`
	Longitude       *Number   `json:"longitude,omitempty"`
	SoilMoisture    *Number   `json:"soil_moisture,omitempty"`
	SoilPH          *Number   `json:"soil_ph,omitempty"`
	Nitrogen        *Number   `json:"nitrogen,omitempty"`
	Phosphorus      *Number   `json:"phosphorus,omitempty"`
	Potassium       *Number   `json:"potassium,omitempty"`
	AirTemperature  *Number   `json:"air_temperature,omitempty"`
	AirHumidity     *Number   `json:"air_humidity,omitempty"`
	SoilTemperature *Number   `json:"soil_temperature,omitempty"`
	Battery         *Number   `json:"battery,omitempty"`
}

// FarmStats aggregates readings for a farm over a time window
type FarmStats struct {
	FarmID                string    `json:"farm_id"`
	StartDate             time.Time `json:"start_date"`
	EndDate               time.Time `json:"end_date"`
	TotalReadings         int       `json:"total_readings"`
	AverageSoilMoisture   *Number   `json:"average_soil_moisture,omitempty"`
	AverageSoilPH         *Number   `json:"average_soil_ph,omitempty"`
	AverageAirTemperature *Number   `json:"average_air_temperature,omitempty"`
	AverageAirHumidity    *Number   `json:"average_air_humidity,omitempty"`
	MinSoilMoisture       *Number   `json:"min_soil_moisture,omitempty"`
	MaxSoilMoisture       *Number   `json:"max_soil_moisture,omitempty"`
	MinSoilPH             *Number   `json:"min_soil_ph,omitempty"`
	MaxSoilPH             *Number   `json:"max_soil_ph,omitempty"`
}

// Notification is an alert or recommendation delivered to a user
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FarmID    string    `json:"farm_id,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
