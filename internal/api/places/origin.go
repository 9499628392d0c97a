package places

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/citywalk/go-walk-suggestions/internal/types"
)

// ParseLatLon recognizes a raw "lat, lon" pair typed as text.
func ParseLatLon(text string) (*types.GeoPoint, bool) {
	parts := strings.Split(strings.TrimSpace(text), ",")
	if len(parts) != 2 {
		return nil, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, false
	}
	return &types.GeoPoint{Lat: lat, Lon: lon}, true
}

// ResolveOrigin picks the starting point: explicit coordinates, then a
// geocode of the location text, then the configured city center.
func ResolveOrigin(ctx context.Context, provider Provider, coords *types.GeoPoint, locationText string, cityCenter types.GeoPoint, logger *slog.Logger) types.GeoPoint {
	if coords != nil {
		return *coords
	}
	if strings.TrimSpace(locationText) != "" {
		geo, err := provider.Geocode(ctx, locationText)
		if err == nil && geo != nil {
			return *geo
		}
		logger.WarnContext(ctx, "Geocoding failed, falling back to city center",
			slog.String("location_text", locationText), slog.Any("error", err))
	}
	return cityCenter
}
