package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/FrenchMajesty/agrilens/internal/retry"
	"github.com/FrenchMajesty/agrilens/pkg/types"
)

// DefaultStatsDays is the window used when FarmStats is called with days <= 0
const DefaultStatsDays = 30

// Config holds the configuration for the backend client
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   *retry.Config
	Logger  *zap.Logger

	// Tokens supplies the bearer token for authenticated calls
	Tokens TokenSource

	// OnUnauthorized runs whenever the backend answers 401
	OnUnauthorized func(ctx context.Context)

	// Transport replaces the HTTP transport, mainly for tests
	Transport Doer
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Retry == nil {
		cfg := retry.DefaultConfig()
		c.Retry = &cfg
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// Client exposes the backend's REST endpoints as typed methods
type Client struct {
	doer Doer
}

// NewClient builds a client whose middleware stack is fixed at construction
func NewClient(cfg Config) *Client {
	cfg.applyDefaults()

	transport := cfg.Transport
	if transport == nil {
		transport = NewHTTPDoer(cfg.BaseURL, cfg.Timeout)
	}

	return &Client{
		doer: Chain(transport,
			WithRequestID(),
			WithAuth(cfg.Tokens),
			WithUnauthorized(cfg.OnUnauthorized),
			WithRetry(*cfg.Retry, cfg.Logger),
			WithLogging(cfg.Logger),
		),
	}
}

// ReadingsQuery pages through telemetry readings. Zero values are omitted.
type ReadingsQuery struct {
	Limit  int
	Offset int
}

func (q ReadingsQuery) values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (*types.Token, error) {
	req := NewRequest(http.MethodPost, "/api/v1/auth/login-email")
	req.Body = map[string]string{"email": email, "password": password}

	var token types.Token
	if err := c.call(ctx, req, &token); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &token, nil
}

// Register creates an account and returns the new user
func (c *Client) Register(ctx context.Context, r types.RegisterRequest) (*types.User, error) {
	req := NewRequest(http.MethodPost, "/api/v1/auth/register")
	req.Body = r

	var user types.User
	if err := c.call(ctx, req, &user); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return &user, nil
}

// Me returns the user owning the current token
func (c *Client) Me(ctx context.Context) (*types.User, error) {
	return c.me(ctx, NewRequest(http.MethodGet, "/api/v1/users/me"))
}

// MeWithToken returns the user owning token, regardless of the configured source
func (c *Client) MeWithToken(ctx context.Context, token string) (*types.User, error) {
	req := NewRequest(http.MethodGet, "/api/v1/users/me")
	req.Header.Set("Authorization", "Bearer "+token)
	return c.me(ctx, req)
}

func (c *Client) me(ctx context.Context, req *Request) (*types.User, error) {
	var user types.User
	if err := c.call(ctx, req, &user); err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	return &user, nil
}

// ListFarms returns the farms visible to the current user
func (c *Client) ListFarms(ctx context.Context) ([]types.Farm, error) {
	var farms []types.Farm
	if err := c.call(ctx, NewRequest(http.MethodGet, "/api/v1/farms"), &farms); err != nil {
		return nil, err
	}
	return farms, nil
}

// GetFarm returns one farm
func (c *Client) GetFarm(ctx context.Context, id string) (*types.Farm, error) {
	var farm types.Farm
	if err := c.call(ctx, NewRequest(http.MethodGet, "/api/v1/farms/"+url.PathEscape(id)), &farm); err != nil {
		return nil, err
	}
	return &farm, nil
}

// ListDevices returns devices, filtered by farm when farmID is non-empty
func (c *Client) ListDevices(ctx context.Context, farmID string) ([]types.Device, error) {
	req := NewRequest(http.MethodGet, "/api/v1/devices")
	if farmID != "" {
		req.Query = url.Values{"farm_id": {farmID}}
	}

	var devices []types.Device
	if err := c.call(ctx, req, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// FarmReadings returns telemetry readings for a farm
func (c *Client) FarmReadings(ctx context.Context, farmID string, q ReadingsQuery) ([]types.SensorReading, error) {
	return c.readings(ctx, "/api/v1/telemetry/farm/"+url.PathEscape(farmID)+"/readings", q)
}

// DeviceReadings returns telemetry readings for a device
func (c *Client) DeviceReadings(ctx context.Context, deviceID string, q ReadingsQuery) ([]types.SensorReading, error) {
	return c.readings(ctx, "/api/v1/telemetry/device/"+url.PathEscape(deviceID)+"/readings", q)
}

func (c *Client) readings(ctx context.Context, path string, q ReadingsQuery) ([]types.SensorReading, error) {
	req := NewRequest(http.MethodGet, path)
	req.Query = q.values()

	var readings []types.SensorReading
	if err := c.call(ctx, req, &readings); err != nil {
		return nil, err
	}
	return readings, nil
}

// FarmStats returns aggregated telemetry for the last days days
func (c *Client) FarmStats(ctx context.Context, farmID string, days int) (*types.FarmStats, error) {
	if days <= 0 {
		days = DefaultStatsDays
	}
	req := NewRequest(http.MethodGet, "/api/v1/telemetry/farm/"+url.PathEscape(farmID)+"/stats")
	req.Query = url.Values{"days": {strconv.Itoa(days)}}

	var stats types.FarmStats
	if err := c.call(ctx, req, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// LatestPrediction returns the newest prediction for a farm as raw JSON
func (c *Client) LatestPrediction(ctx context.Context, farmID string) (json.RawMessage, error) {
	resp, err := c.doer.Do(ctx, NewRequest(http.MethodGet, "/api/v1/predict/farm/"+url.PathEscape(farmID)+"/latest"))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body), nil
}

// Predict requests a new yield prediction and returns the raw response
func (c *Client) Predict(ctx context.Context, body any) (json.RawMessage, error) {
	req := NewRequest(http.MethodPost, "/api/v1/predict")
	req.Body = body

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body), nil
}

// Notifications returns the current user's notifications
func (c *Client) Notifications(ctx context.Context) ([]types.Notification, error) {
	var notifications []types.Notification
	if err := c.call(ctx, NewRequest(http.MethodGet, "/api/v1/notifications"), &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkAllNotificationsRead marks every notification as read
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := c.doer.Do(ctx, NewRequest(http.MethodPut, "/api/v1/notifications/mark-all-read"))
	return err
}

func (c *Client) call(ctx context.Context, req *Request, out any) error {
	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	return resp.JSON(out)
}
