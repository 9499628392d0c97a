package itinerary

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/citywalk/go-walk-suggestions/internal/types"
)

// aggregateCandidates fans out one place-search call per (query, radius)
// pair and merges everything into one unordered pool. Calls are
// independent, so they run concurrently; a failed call contributes
// nothing instead of failing the pipeline.
func (s *ServiceImpl) aggregateCandidates(ctx context.Context, queries []string, origin types.GeoPoint, radiiMeters []int, perCallLimit int) []types.Place {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "aggregateCandidates")
	defer span.End()
	span.SetAttributes(
		attribute.Int("aggregate.queries", len(queries)),
		attribute.IntSlice("aggregate.radii_m", radiiMeters),
	)

	var (
		mu   sync.Mutex
		pool []types.Place
	)
	g, ctx := errgroup.WithContext(ctx)

	for _, radius := range radiiMeters {
		for _, query := range queries {
			g.Go(func() error {
				results, err := s.provider.SearchByQuery(ctx, query, origin, perCallLimit, radius)
				if s.metrics != nil {
					s.metrics.SearchCallsTotal.Add(ctx, 1)
				}
				if err != nil {
					s.logger.WarnContext(ctx, "Place search call failed",
						slog.String("query", query),
						slog.Int("radius_m", radius),
						slog.Any("error", err),
					)
					return nil
				}
				mu.Lock()
				pool = append(pool, results...)
				mu.Unlock()
				return nil
			})
		}
	}
	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	span.SetAttributes(attribute.Int("aggregate.pool_size", len(pool)))
	return pool
}
