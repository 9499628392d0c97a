package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/citywalk/go-walk-suggestions/internal/types"
)

const (
	defaultEndpoint = "https://catalog.api.2gis.com/3.0/items"
	requestTimeout  = 8 * time.Second

	maxPageSize = 15
)

// Administrative/geographic unit types the catalog returns that are
// never walkable stops.
var excludedItemTypes = map[string]struct{}{
	"adm_div":    {},
	"street":     {},
	"settlement": {},
	"district":   {},
	"region":     {},
}

var _ Provider = (*TwoGISClient)(nil)

// Provider is the place-search capability the aggregator depends on.
type Provider interface {
	SearchByQuery(ctx context.Context, query string, origin types.GeoPoint, limit, radiusM int) ([]types.Place, error)
	Geocode(ctx context.Context, address string) (*types.GeoPoint, error)
}

// TwoGISClient searches the 2GIS catalog within the configured city.
type TwoGISClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	endpoint   string
	apiKey     string
	cityName   string
	cityCenter types.GeoPoint
}

func NewTwoGISClient(cityName string, cityCenter types.GeoPoint, logger *slog.Logger) (*TwoGISClient, error) {
	apiKey := os.Getenv("DGIS_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("TWOGIS_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("2GIS API key not found, set DGIS_API_KEY or TWOGIS_API_KEY")
	}
	return &TwoGISClient{
		logger:     logger,
		httpClient: &http.Client{Timeout: requestTimeout},
		endpoint:   defaultEndpoint,
		apiKey:     apiKey,
		cityName:   cityName,
		cityCenter: cityCenter,
	}, nil
}

// catalogResponse mirrors the subset of the 2GIS items payload we read.
type catalogResponse struct {
	Result struct {
		Items []catalogItem `json:"items"`
	} `json:"result"`
}

type catalogItem struct {
	Name        string `json:"name"`
	AddressName string `json:"address_name"`
	Type        string `json:"type"`
	Point       *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"point"`
	Rubrics []struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	} `json:"rubrics"`
	Rating *struct {
		Rating *float64 `json:"rating"`
	} `json:"rating"`
}

// SearchByQuery issues one catalog search centered at origin. Nameless
// records and administrative/geographic units never reach the caller.
func (c *TwoGISClient) SearchByQuery(ctx context.Context, query string, origin types.GeoPoint, limit, radiusM int) ([]types.Place, error) {
	ctx, span := otel.Tracer("TwoGISClient").Start(ctx, "SearchByQuery")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.query", query),
		attribute.Int("search.radius_m", radiusM),
	)

	if limit < 1 {
		limit = 1
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", query+" "+c.cityName)
	params.Set("page_size", strconv.Itoa(limit))
	params.Set("fields", "items.point,items.address_name,items.rubrics,items.rating,items.type")
	params.Set("sort", "distance")
	params.Set("location", fmt.Sprintf("%.6f,%.6f", origin.Lon, origin.Lat))
	params.Set("radius", strconv.Itoa(radiusM))

	data, err := c.get(ctx, params)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	places := make([]types.Place, 0, len(data.Result.Items))
	for _, it := range data.Result.Items {
		place, ok := it.toPlace()
		if !ok {
			continue
		}
		places = append(places, place)
	}
	span.SetAttributes(attribute.Int("search.results", len(places)))
	return places, nil
}

// Geocode coarsely resolves a free-text address through the catalog,
// constrained to the configured city.
func (c *TwoGISClient) Geocode(ctx context.Context, address string) (*types.GeoPoint, error) {
	ctx, span := otel.Tracer("TwoGISClient").Start(ctx, "Geocode")
	defer span.End()

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", normalizeAddress(address)+" "+c.cityName)
	params.Set("page_size", "5")
	params.Set("fields", "items.point,items.address_name")
	params.Set("sort", "distance")
	params.Set("location", fmt.Sprintf("%.6f,%.6f", c.cityCenter.Lon, c.cityCenter.Lat))

	data, err := c.get(ctx, params)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for _, it := range data.Result.Items {
		if it.Point != nil {
			return &types.GeoPoint{Lat: it.Point.Lat, Lon: it.Point.Lon}, nil
		}
	}
	return nil, fmt.Errorf("no point found for address %q", address)
}

func (c *TwoGISClient) get(ctx context.Context, params url.Values) (*catalogResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build 2GIS request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("2GIS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("2GIS request returned status %d", resp.StatusCode)
	}

	var data catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode 2GIS response: %w", err)
	}
	return &data, nil
}

func (it catalogItem) toPlace() (types.Place, bool) {
	name := strings.TrimSpace(it.Name)
	if name == "" {
		return types.Place{}, false
	}
	if _, excluded := excludedItemTypes[it.Type]; excluded {
		return types.Place{}, false
	}

	place := types.Place{
		Name:    name,
		Address: it.AddressName,
	}
	if it.Point != nil {
		place.Coords = &types.GeoPoint{Lat: it.Point.Lat, Lon: it.Point.Lon}
	}
	for _, rb := range it.Rubrics {
		title := strings.TrimSpace(rb.Name)
		if title == "" {
			title = strings.TrimSpace(rb.Title)
		}
		if title != "" {
			place.Categories = append(place.Categories, title)
		}
	}
	if it.Rating != nil && it.Rating.Rating != nil {
		rating := *it.Rating.Rating
		place.Rating = &rating
	}
	return place, true
}

var houseFractionRe = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

// normalizeAddress rewrites "25/12" house numbers as "25 к 12", which
// the catalog geocodes far more reliably.
func normalizeAddress(text string) string {
	return houseFractionRe.ReplaceAllString(strings.TrimSpace(text), "$1 к $2")
}
