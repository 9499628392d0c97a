package places

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/citywalk/go-walk-suggestions/internal/types"
)

var cityCenter = types.GeoPoint{Lat: 56.326, Lon: 44.006}

// MockProvider is a mock implementation of Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SearchByQuery(ctx context.Context, query string, origin types.GeoPoint, limit, radiusM int) ([]types.Place, error) {
	args := m.Called(ctx, query, origin, limit, radiusM)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockProvider) Geocode(ctx context.Context, address string) (*types.GeoPoint, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GeoPoint), args.Error(1)
}

func newTestClient(endpoint string) *TwoGISClient {
	return &TwoGISClient{
		logger:     slog.Default(),
		httpClient: http.DefaultClient,
		endpoint:   endpoint,
		apiKey:     "test-key",
		cityName:   "Нижний Новгород",
		cityCenter: cityCenter,
	}
}

const catalogPayload = `{
  "result": {
    "items": [
      {
        "name": "Нижегородский кремль",
        "address_name": "Кремль, 1",
        "type": "attraction",
        "point": {"lat": 56.3287, "lon": 44.002},
        "rubrics": [{"name": "Достопримечательности"}],
        "rating": {"rating": 4.8}
      },
      {
        "name": "Большая Покровская",
        "type": "street",
        "point": {"lat": 56.32, "lon": 44.0}
      },
      {
        "name": "",
        "type": "attraction"
      },
      {
        "name": "Музей без координат",
        "type": "branch",
        "rubrics": [{"title": "Музеи"}]
      }
    ]
  }
}`

func TestSearchByQuery(t *testing.T) {
	var gotQuery, gotRadius string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotRadius = r.URL.Query().Get("radius")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(catalogPayload))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	places, err := client.SearchByQuery(context.Background(), "музей", cityCenter, 10, 5000)
	require.NoError(t, err)

	// Street and nameless records are excluded by the adapter.
	require.Len(t, places, 2)
	assert.Equal(t, "Нижегородский кремль", places[0].Name)
	assert.Equal(t, "Кремль, 1", places[0].Address)
	require.NotNil(t, places[0].Coords)
	assert.InDelta(t, 56.3287, places[0].Coords.Lat, 1e-9)
	require.NotNil(t, places[0].Rating)
	assert.InDelta(t, 4.8, *places[0].Rating, 1e-9)
	assert.Equal(t, []string{"Достопримечательности"}, places[0].Categories)

	assert.Equal(t, "Музей без координат", places[1].Name)
	assert.Nil(t, places[1].Coords)
	assert.Equal(t, []string{"Музеи"}, places[1].Categories)

	assert.Equal(t, "музей Нижний Новгород", gotQuery)
	assert.Equal(t, "5000", gotRadius)
}

func TestSearchByQueryHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.SearchByQuery(context.Background(), "музей", cityCenter, 10, 5000)
	assert.Error(t, err)
}

func TestGeocode(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{"result":{"items":[{"name":"дом","point":{"lat":56.31,"lon":44.01}}]}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	point, err := client.Geocode(context.Background(), "Ильинская 25/12")
	require.NoError(t, err)
	assert.InDelta(t, 56.31, point.Lat, 1e-9)
	// House number fractions are rewritten for the catalog.
	assert.Equal(t, "Ильинская 25 к 12 Нижний Новгород", gotQuery)
}

func TestParseLatLon(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *types.GeoPoint
	}{
		{name: "Valid Pair", text: "56.326, 44.006", want: &types.GeoPoint{Lat: 56.326, Lon: 44.006}},
		{name: "No Comma", text: "улица Рождественская", want: nil},
		{name: "Not Numbers", text: "улица, дом", want: nil},
		{name: "Out Of Range", text: "956.3, 44.0", want: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseLatLon(tc.text)
			if tc.want == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveOrigin(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	t.Run("Explicit Coordinates Win", func(t *testing.T) {
		provider := new(MockProvider)
		coords := &types.GeoPoint{Lat: 56.3, Lon: 44.0}
		got := ResolveOrigin(ctx, provider, coords, "игнорируется", cityCenter, logger)
		assert.Equal(t, *coords, got)
		provider.AssertNotCalled(t, "Geocode")
	})

	t.Run("Geocoded Text", func(t *testing.T) {
		provider := new(MockProvider)
		geocoded := &types.GeoPoint{Lat: 56.31, Lon: 44.01}
		provider.On("Geocode", ctx, "Рождественская 1").Return(geocoded, nil)
		got := ResolveOrigin(ctx, provider, nil, "Рождественская 1", cityCenter, logger)
		assert.Equal(t, *geocoded, got)
		provider.AssertExpectations(t)
	})

	t.Run("City Center Fallback", func(t *testing.T) {
		provider := new(MockProvider)
		provider.On("Geocode", ctx, "неизвестно").Return(nil, errors.New("not found"))
		got := ResolveOrigin(ctx, provider, nil, "неизвестно", cityCenter, logger)
		assert.Equal(t, cityCenter, got)
	})

	t.Run("Empty Text Goes Straight To Center", func(t *testing.T) {
		provider := new(MockProvider)
		got := ResolveOrigin(ctx, provider, nil, "", cityCenter, logger)
		assert.Equal(t, cityCenter, got)
		provider.AssertNotCalled(t, "Geocode")
	})
}
