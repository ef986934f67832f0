package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/FrenchMajesty/agrilens/clients/backend"
	"github.com/FrenchMajesty/agrilens/pkg/types"
)

// MockAuthenticator is a mock implementation of session.Authenticator for testing
type MockAuthenticator struct {
	LoginFunc       func(ctx context.Context, email, password string) (*types.Token, error)
	MeWithTokenFunc func(ctx context.Context, token string) (*types.User, error)
	RegisterFunc    func(ctx context.Context, req types.RegisterRequest) (*types.User, error)

	mu            sync.Mutex
	LoginCount    int
	MeCount       int
	RegisterCount int
	LastToken     string
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*types.Token, error) {
	m.mu.Lock()
	m.LoginCount++
	m.mu.Unlock()

	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	// Default: issue a token derived from the email
	return &types.Token{AccessToken: "token-" + email, TokenType: "bearer"}, nil
}

func (m *MockAuthenticator) MeWithToken(ctx context.Context, token string) (*types.User, error) {
	m.mu.Lock()
	m.MeCount++
	m.LastToken = token
	m.mu.Unlock()

	if m.MeWithTokenFunc != nil {
		return m.MeWithTokenFunc(ctx, token)
	}
	return &types.User{ID: "user-1", Name: "Test Farmer", Role: types.RoleFarmer, IsActive: true}, nil
}

func (m *MockAuthenticator) Register(ctx context.Context, req types.RegisterRequest) (*types.User, error) {
	m.mu.Lock()
	m.RegisterCount++
	m.mu.Unlock()

	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	role := req.Role
	if role == "" {
		role = types.RoleFarmer
	}
	return &types.User{ID: "user-new", Name: req.Name, Email: req.Email, Role: role, IsActive: true}, nil
}

// MockBackend is a mock implementation of the dashboard's Backend for testing
type MockBackend struct {
	GetFarmFunc          func(ctx context.Context, id string) (*types.Farm, error)
	FarmStatsFunc        func(ctx context.Context, farmID string, days int) (*types.FarmStats, error)
	FarmReadingsFunc     func(ctx context.Context, farmID string, q backend.ReadingsQuery) ([]types.SensorReading, error)
	LatestPredictionFunc func(ctx context.Context, farmID string) (json.RawMessage, error)

	mu        sync.Mutex
	CallCount int
	LastQuery backend.ReadingsQuery
}

func (m *MockBackend) record() {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()
}

func (m *MockBackend) GetFarm(ctx context.Context, id string) (*types.Farm, error) {
	m.record()
	if m.GetFarmFunc != nil {
		return m.GetFarmFunc(ctx, id)
	}
	return &types.Farm{ID: id, Name: "Test Farm"}, nil
}

func (m *MockBackend) FarmStats(ctx context.Context, farmID string, days int) (*types.FarmStats, error) {
	m.record()
	if m.FarmStatsFunc != nil {
		return m.FarmStatsFunc(ctx, farmID, days)
	}
	return &types.FarmStats{FarmID: farmID}, nil
}

func (m *MockBackend) FarmReadings(ctx context.Context, farmID string, q backend.ReadingsQuery) ([]types.SensorReading, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastQuery = q
	m.mu.Unlock()

	if m.FarmReadingsFunc != nil {
		return m.FarmReadingsFunc(ctx, farmID, q)
	}
	return []types.SensorReading{}, nil
}

func (m *MockBackend) LatestPrediction(ctx context.Context, farmID string) (json.RawMessage, error) {
	m.record()
	if m.LatestPredictionFunc != nil {
		return m.LatestPredictionFunc(ctx, farmID)
	}
	// Default: no prediction yet
	return nil, &backend.APIError{Method: http.MethodGet, Path: "/api/v1/predict/farm/" + farmID + "/latest", StatusCode: http.StatusNotFound}
}

// MockDoer is a mock implementation of backend.Doer for testing middleware
type MockDoer struct {
	DoFunc func(ctx context.Context, req *backend.Request) (*backend.Response, error)

	mu       sync.Mutex
	Requests []*backend.Request
}

func (m *MockDoer) Do(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.DoFunc != nil {
		return m.DoFunc(ctx, req)
	}
	return &backend.Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil
}

// CallCount returns how many requests reached the mock
func (m *MockDoer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
