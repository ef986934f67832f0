package agrilens

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FrenchMajesty/agrilens/clients/backend"
	"github.com/FrenchMajesty/agrilens/pkg/types"
	"github.com/FrenchMajesty/agrilens/utils/export"
	"github.com/FrenchMajesty/agrilens/utils/format"
	"github.com/FrenchMajesty/agrilens/utils/geo"
	"github.com/FrenchMajesty/agrilens/utils/status"
)

// Dashboard assembles farm overviews from the backend
type Dashboard struct {
	cfg    Config
	logger *zap.Logger
}

// NewDashboard creates a new Dashboard with the given configuration
func NewDashboard(cfg Config) (*Dashboard, error) {
	if cfg.API == nil {
		return nil, errors.New("dashboard requires a backend")
	}
	if cfg.PercentageDecimals != nil && *cfg.PercentageDecimals < 0 {
		return nil, fmt.Errorf("percentage decimals must not be negative, got %d", *cfg.PercentageDecimals)
	}
	cfg.applyDefaults()

	return &Dashboard{
		cfg:    cfg,
		logger: cfg.Logger,
	}, nil
}

// Load fetches the farm, its statistics, recent readings and latest
// prediction concurrently. A farm without a prediction yet is not an error.
func (d *Dashboard) Load(ctx context.Context, farmID string) (*Overview, error) {
	if strings.TrimSpace(farmID) == "" {
		return nil, errors.New("farm id is required")
	}

	var (
		farm       *types.Farm
		stats      *types.FarmStats
		readings   []types.SensorReading
		prediction []byte
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		f, err := d.cfg.API.GetFarm(gctx, farmID)
		if err != nil {
			return fmt.Errorf("failed to load farm %s: %w", farmID, err)
		}
		farm = f
		return nil
	})

	g.Go(func() error {
		s, err := d.cfg.API.FarmStats(gctx, farmID, d.cfg.StatsDays)
		if err != nil {
			return fmt.Errorf("failed to load stats for farm %s: %w", farmID, err)
		}
		stats = s
		return nil
	})

	g.Go(func() error {
		r, err := d.cfg.API.FarmReadings(gctx, farmID, backend.ReadingsQuery{Limit: d.cfg.ReadingsLimit})
		if err != nil {
			return fmt.Errorf("failed to load readings for farm %s: %w", farmID, err)
		}
		readings = r
		return nil
	})

	g.Go(func() error {
		p, err := d.cfg.API.LatestPrediction(gctx, farmID)
		if errors.Is(err, backend.ErrNotFound) {
			d.logger.Debug("no prediction yet", zap.String("farm_id", farmID))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load prediction for farm %s: %w", farmID, err)
		}
		prediction = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview := &Overview{
		Farm:        farm,
		Stats:       stats,
		Readings:    make([]Reading, 0, len(readings)),
		Prediction:  prediction,
		GeneratedAt: d.cfg.Now(),
	}
	for _, r := range readings {
		overview.Readings = append(overview.Readings, ReadingFromSensor(r))
	}
	sort.SliceStable(overview.Readings, func(i, j int) bool {
		return overview.Readings[i].Timestamp.After(overview.Readings[j].Timestamp)
	})
	if len(overview.Readings) > 0 {
		latest := overview.Readings[0]
		overview.Latest = &latest
		overview.Cards = SensorCards(latest)
	}

	d.logger.Info("dashboard loaded",
		zap.String("farm_id", farmID),
		zap.Int("readings", len(overview.Readings)),
		zap.Bool("has_prediction", prediction != nil),
	)
	return overview, nil
}

var cardTitles = map[status.Kind]string{
	status.KindBattery:      "Battery",
	status.KindSoilMoisture: "Soil Moisture",
	status.KindSoilPH:       "Soil pH",
	status.KindTemperature:  "Temperature",
}

// SensorCards formats and classifies every measurement r carries, in
// status.Kinds order. Missing measurements produce no card.
func SensorCards(r Reading) []Card {
	cards := make([]Card, 0, len(status.Kinds))
	for _, kind := range status.Kinds {
		v := r.Value(kind)
		if v == nil {
			continue
		}
		res, err := status.Classify(kind, *v)
		if err != nil {
			continue
		}
		cards = append(cards, Card{
			Kind:   kind,
			Title:  cardTitles[kind],
			Value:  cardValue(kind, *v),
			Status: res.Status,
			Color:  res.Color,
		})
	}
	return cards
}

func cardValue(kind status.Kind, v float64) string {
	switch kind {
	case status.KindBattery:
		return format.Number(v, 2) + " V"
	case status.KindSoilMoisture:
		return format.Number(v, 1) + "%"
	case status.KindTemperature:
		return format.Number(v, 1) + "°C"
	}
	return format.Number(v, 1)
}

// ExportReadings flattens readings into rows ready for export.ConvertToCSV
func (d *Dashboard) ExportReadings(readings []Reading) []export.Row {
	rows := make([]export.Row, 0, len(readings))
	for _, r := range readings {
		rows = append(rows, export.Row{
			{Key: "device_id", Value: r.DeviceID},
			{Key: "timestamp", Value: r.Timestamp},
			{Key: "battery_voltage", Value: r.BatteryVoltage},
			{Key: "soil_moisture", Value: r.SoilMoisture},
			{Key: "soil_ph", Value: r.SoilPH},
			{Key: "temperature", Value: r.Temperature},
			{Key: "latitude", Value: r.Lat},
			{Key: "longitude", Value: r.Lon},
		})
	}
	return rows
}

// Summary renders the headline figures of an overview as display strings.
// Keys without data are omitted.
func (d *Dashboard) Summary(o *Overview) map[string]string {
	out := make(map[string]string)
	if o == nil {
		return out
	}

	var areaHa float64
	if o.Farm != nil {
		out["farm"] = o.Farm.Name
		out["crop"] = o.Farm.CropType
		areaHa = o.Farm.AreaHa.Float()
		out["area"] = format.Number(areaHa, 2) + " ha"
		if o.Farm.PlantingDate != "" {
			out["planted"] = format.DateString(o.Farm.PlantingDate)
		}
		if o.Farm.ExpectedHarvestDate != "" {
			out["harvest"] = format.DateString(o.Farm.ExpectedHarvestDate)
		}
	}

	if o.Stats != nil {
		out["readings"] = format.Number(float64(o.Stats.TotalReadings), 0)
		if v := o.Stats.AverageSoilMoisture; v != nil {
			out["avg_soil_moisture"] = format.Percentage(v.Float(), *d.cfg.PercentageDecimals)
		}
		if v := o.Stats.AverageSoilPH; v != nil {
			out["avg_soil_ph"] = format.Number(v.Float(), 1)
		}
		if v := o.Stats.AverageAirTemperature; v != nil {
			out["avg_temperature"] = format.Number(v.Float(), 1) + "°C"
		}
	}

	if o.Latest != nil {
		out["last_reading"] = format.DateTime(o.Latest.Timestamp)
	}

	if len(o.Prediction) > 0 && gjson.ValidBytes(o.Prediction) {
		if y, ok := predictionNumber(o.Prediction, "predicted_yield_kg_per_ha"); ok {
			out["predicted_yield"] = format.Number(y, 0) + " kg/ha"
			if d.cfg.PricePerKg > 0 && areaHa > 0 {
				out["estimated_revenue"] = format.Currency(y*areaHa*d.cfg.PricePerKg, d.cfg.Currency)
			}
		}
		if c, ok := predictionNumber(o.Prediction, "confidence"); ok {
			out["confidence"] = format.Percentage(c*100, *d.cfg.PercentageDecimals)
		}
		if s := gjson.GetBytes(o.Prediction, "expected_change_vs_hist"); s.Exists() {
			out["change_vs_history"] = s.String()
		}
	}

	return out
}

// predictionNumber reads a decimal the backend may encode as a string or number
func predictionNumber(raw []byte, path string) (float64, bool) {
	v := gjson.GetBytes(raw, path)
	switch v.Type {
	case gjson.Number:
		return v.Num, true
	case gjson.String:
		f, err := strconv.ParseFloat(v.Str, 64)
		return f, err == nil
	}
	return 0, false
}

// NearestDevice returns the reading whose location is closest to the farm.
// Readings without coordinates are skipped; ok is false when none remain.
func (d *Dashboard) NearestDevice(farm *types.Farm, readings []Reading) (NearestResult, bool) {
	if farm == nil {
		return NearestResult{}, false
	}
	origin := geo.Point{Lat: farm.Latitude.Float(), Lon: farm.Longitude.Float()}

	located := make([]Reading, 0, len(readings))
	points := make([]geo.Point, 0, len(readings))
	for _, r := range readings {
		if p, ok := r.Point(); ok {
			located = append(located, r)
			points = append(points, p)
		}
	}

	idx, dist := geo.Nearest(origin, points)
	if idx < 0 {
		return NearestResult{}, false
	}
	return NearestResult{
		DeviceID:   located[idx].DeviceID,
		DistanceKm: dist,
		Reading:    located[idx],
	}, true
}
