package agrilens

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/FrenchMajesty/agrilens/clients/backend"
	"github.com/FrenchMajesty/agrilens/pkg/types"
	"github.com/FrenchMajesty/agrilens/utils/format"
)

const (
	// DefaultReadingsLimit is how many recent readings a dashboard loads
	DefaultReadingsLimit = 100

	// DefaultStatsDays is the statistics window in days
	DefaultStatsDays = backend.DefaultStatsDays
)

// Backend is the subset of the backend API the dashboard reads from.
// *backend.Client satisfies it.
type Backend interface {
	GetFarm(ctx context.Context, id string) (*types.Farm, error)
	FarmStats(ctx context.Context, farmID string, days int) (*types.FarmStats, error)
	FarmReadings(ctx context.Context, farmID string, q backend.ReadingsQuery) ([]types.SensorReading, error)
	LatestPrediction(ctx context.Context, farmID string) (json.RawMessage, error)
}

// Config holds configuration for the Dashboard
type Config struct {
	// API serves farm data. Required.
	API Backend

	// Logger receives load progress. If nil, logging is disabled.
	Logger *zap.Logger

	// Currency is the ISO 4217 code for revenue figures. If empty, uses format.DefaultCurrency.
	Currency string

	// PercentageDecimals is the fraction digit count for percentages. If nil, uses format.DefaultPercentageDecimals.
	PercentageDecimals *int

	// PricePerKg is the expected farm-gate price used for revenue estimates. If 0, no estimate is shown.
	PricePerKg float64

	// ReadingsLimit caps how many readings Load fetches. If 0, uses DefaultReadingsLimit.
	ReadingsLimit int

	// StatsDays is the statistics window. If 0, uses DefaultStatsDays.
	StatsDays int

	// Now stamps generated overviews. If nil, uses time.Now.
	Now func() time.Time
}

// applyDefaults fills in default values for unset config fields
func (c *Config) applyDefaults() {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	if c.Currency == "" {
		c.Currency = format.DefaultCurrency
	}

	if c.PercentageDecimals == nil {
		decimals := format.DefaultPercentageDecimals
		c.PercentageDecimals = &decimals
	}

	if c.ReadingsLimit == 0 {
		c.ReadingsLimit = DefaultReadingsLimit
	}

	if c.StatsDays == 0 {
		c.StatsDays = DefaultStatsDays
	}

	if c.Now == nil {
		c.Now = time.Now
	}
}
