package itinerary

import (
	"context"

	"github.com/stretchr/testify/mock"
	"google.golang.org/genai"

	"github.com/citywalk/go-walk-suggestions/config"
	generativeAI "github.com/citywalk/go-walk-suggestions/internal/api/generative_ai"
	"github.com/citywalk/go-walk-suggestions/internal/types"
)

var _ generativeAI.Generator = (*MockGenerator)(nil)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SearchByQuery(ctx context.Context, query string, origin types.GeoPoint, limit, radiusM int) ([]types.Place, error) {
	args := m.Called(ctx, query, origin, limit, radiusM)
	if v := args.Get(0); v != nil {
		return v.([]types.Place), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) Geocode(ctx context.Context, address string) (*types.GeoPoint, error) {
	args := m.Called(ctx, address)
	if v := args.Get(0); v != nil {
		return v.(*types.GeoPoint), args.Error(1)
	}
	return nil, args.Error(1)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.City.Name = "Нижний Новгород"
	cfg.City.CenterLat = 56.326
	cfg.City.CenterLon = 44.006
	cfg.Search.RadiiMeters = []int{5000, 10000}
	cfg.Search.EscalationRadiiMeters = []int{10000, 20000}
	cfg.Search.PerCallLimit = 10
	cfg.Search.EscalationCallLimit = 12
	cfg.Search.MaxQueries = 5
	cfg.Itinerary.MinStayMinutes = 10
	cfg.Itinerary.MaxStayMinutes = 90
	cfg.Itinerary.DefaultStayMinutes = 30
	cfg.Itinerary.BufferMinutes = 30
	cfg.Itinerary.MinStops = 3
	cfg.Itinerary.MaxStops = 5
	return cfg
}
