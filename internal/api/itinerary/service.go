package itinerary

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/citywalk/go-walk-suggestions/app/observability/metrics"
	"github.com/citywalk/go-walk-suggestions/config"
	"github.com/citywalk/go-walk-suggestions/internal/api/classifier"
	generativeAI "github.com/citywalk/go-walk-suggestions/internal/api/generative_ai"
	"github.com/citywalk/go-walk-suggestions/internal/api/geo"
	"github.com/citywalk/go-walk-suggestions/internal/api/places"
	"github.com/citywalk/go-walk-suggestions/internal/types"
)

const (
	defaultTimeHours = 2.0

	msgNoPlaces         = "Не удалось найти достаточно мест по запросу. Уточните интересы или адрес."
	msgGenerationFailed = "Не удалось сгенерировать маршрут. Попробуйте ещё раз позднее."
)

var _ Service = (*ServiceImpl)(nil)

// Service is the generation surface this core exposes to its callers.
// The result always carries a text and a success flag; internal errors
// never escape.
type Service interface {
	GenerateItinerary(ctx context.Context, req types.GenerateItineraryRequest) (*types.GenerateItineraryResult, error)
}

// ServiceImpl orchestrates the pipeline: classify, aggregate, filter,
// escalate, select, enrich, sequence.
type ServiceImpl struct {
	logger     *slog.Logger
	cfg        *config.Config
	classifier classifier.Service
	provider   places.Provider
	ai         generativeAI.Generator
	repo       Repository          // nil when Postgres is not configured
	metrics    *metrics.AppMetrics // nil in tests
}

func NewServiceImpl(classifierSvc classifier.Service, provider places.Provider, ai generativeAI.Generator,
	repo Repository, appMetrics *metrics.AppMetrics, cfg *config.Config, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		cfg:        cfg,
		classifier: classifierSvc,
		provider:   provider,
		ai:         ai,
		repo:       repo,
		metrics:    appMetrics,
	}
}

// GenerateItinerary runs the full pipeline for one request. Whatever
// happens inside, the caller receives a text and a success flag; a panic
// anywhere becomes a generic try-again message.
func (s *ServiceImpl) GenerateItinerary(ctx context.Context, req types.GenerateItineraryRequest) (result *types.GenerateItineraryResult, err error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.Float64("request.time_hours", req.TimeHours),
	))
	defer span.End()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "Itinerary generation panicked", slog.Any("panic", r))
			span.SetStatus(codes.Error, "Pipeline panic")
			result = &types.GenerateItineraryResult{Text: msgGenerationFailed, Success: false}
			err = nil
		}
		s.recordOutcome(ctx, req, result, time.Since(start))
	}()

	interests := strings.TrimSpace(req.Interests)
	timeHours := req.TimeHours
	if timeHours <= 0 {
		timeHours = defaultTimeHours
	}

	// 1) Classify interests into search queries.
	cats, catProv := s.classifier.Classify(ctx, interests)
	s.noteFallback(ctx, "classifier", catProv)

	// 2) Resolve the starting point.
	coords := req.OriginCoords
	originText := strings.TrimSpace(req.OriginText)
	if coords == nil && originText != "" {
		if parsed, ok := places.ParseLatLon(originText); ok {
			coords = parsed
		}
	}
	cityCenter := types.GeoPoint{Lat: s.cfg.City.CenterLat, Lon: s.cfg.City.CenterLon}
	origin := places.ResolveOrigin(ctx, s.provider, coords, originText, cityCenter, s.logger)

	// 3) Aggregate a wide candidate pool.
	queries := cats.Queries()
	if len(queries) == 0 {
		queries = []string{interests}
	}
	if max := s.cfg.Search.MaxQueries; max > 0 && len(queries) > max {
		queries = queries[:max]
	}
	pool := s.aggregateCandidates(ctx, queries, origin, s.cfg.Search.RadiiMeters, s.cfg.Search.PerCallLimit)

	// 4) Dedupe and filter.
	allowFood := AllowFood(cats, interests)
	filtered := FilterUnwanted(DedupePlaces(pool), allowFood)
	span.SetAttributes(
		attribute.Int("pipeline.pool_size", len(pool)),
		attribute.Int("pipeline.filtered_size", len(filtered)),
		attribute.Bool("pipeline.allow_food", allowFood),
	)

	// Escalation: too few survivors, ask for alternative queries and
	// search again with wider radii. A failed suggestion call silently
	// yields nothing.
	if len(filtered) < s.cfg.Itinerary.MinStops {
		if alt := s.suggestAlternativeQueries(ctx, interests, queries); len(alt) > 0 {
			altPool := s.aggregateCandidates(ctx, alt, origin, s.cfg.Search.EscalationRadiiMeters, s.cfg.Search.EscalationCallLimit)
			if len(altPool) > 0 {
				pool = append(pool, altPool...)
				filtered = FilterUnwanted(DedupePlaces(pool), allowFood)
			}
		}
	}

	// Label each survivor with its distance from the origin.
	for i := range filtered {
		if c := filtered[i].Coords; c != nil {
			km := geo.DistanceKm(origin, *c)
			filtered[i].DistanceKm = &km
		}
	}
	if s.metrics != nil {
		s.metrics.CandidatePoolSize.Record(ctx, int64(len(filtered)))
	}

	if len(filtered) < 1 {
		s.logger.WarnContext(ctx, "No usable candidates after filtering and escalation",
			slog.String("interests", interests))
		span.SetStatus(codes.Error, "No usable candidates")
		result = &types.GenerateItineraryResult{Text: msgNoPlaces, Success: false}
		return result, nil
	}

	// 5) Shortlist and enrich.
	target := targetStops(timeHours, s.cfg.Itinerary.MinStops, s.cfg.Itinerary.MaxStops)
	shortlist, selProv := s.selectBestPlaces(ctx, filtered, interests, target)
	s.noteFallback(ctx, "selector", selProv)

	enriched, enrProv := s.enrichPlaces(ctx, shortlist, interests)
	s.noteFallback(ctx, "enrichment", enrProv)

	// 6) Sequence within the time budget.
	itin, text, coordsList := BuildItinerary(enriched, timeHours, s.cfg.Itinerary.BufferMinutes, origin, s.startLabel(req, coords))

	success := len(itin.Stops) >= s.cfg.Itinerary.MinStops
	if success {
		span.SetStatus(codes.Ok, "Itinerary generated")
	} else {
		span.SetStatus(codes.Error, "Too few stops committed")
	}
	span.SetAttributes(attribute.Int("itinerary.stops", len(itin.Stops)))

	result = &types.GenerateItineraryResult{
		Text:        text,
		Coordinates: coordsList,
		Success:     success,
		Itinerary:   itin,
	}
	return result, nil
}

// targetStops sizes the shortlist to the available time: roughly two
// stops per hour, clamped to the configured bounds.
func targetStops(timeHours float64, minStops, maxStops int) int {
	target := int(math.Round(timeHours * 2))
	if target < minStops {
		target = minStops
	}
	if target > maxStops {
		target = maxStops
	}
	return target
}

func (s *ServiceImpl) startLabel(req types.GenerateItineraryRequest, coords *types.GeoPoint) string {
	if label := strings.TrimSpace(req.OriginLabel); label != "" {
		return label
	}
	if text := strings.TrimSpace(req.OriginText); text != "" && coords == nil {
		return text
	}
	if coords != nil {
		return "текущая локация пользователя"
	}
	return "центр города"
}

func (s *ServiceImpl) noteFallback(ctx context.Context, stage string, provenance types.Provenance) {
	if provenance != types.ProvenanceFallback {
		return
	}
	if s.metrics != nil {
		s.metrics.StageFallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
	}
}

func (s *ServiceImpl) recordOutcome(ctx context.Context, req types.GenerateItineraryRequest, result *types.GenerateItineraryResult, elapsed time.Duration) {
	if result == nil {
		return
	}
	outcome := "failure"
	if result.Success {
		outcome = "success"
	}
	if s.metrics != nil {
		s.metrics.GenerationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
		s.metrics.GenerationDurationSeconds.Record(ctx, elapsed.Seconds())
	}
	if s.repo != nil {
		interaction := types.GenerationInteraction{
			UserID:       req.UserID,
			Interests:    req.Interests,
			TimeHours:    req.TimeHours,
			ResponseText: result.Text,
			Success:      result.Success,
			LatencyMs:    int(elapsed.Milliseconds()),
		}
		if _, err := s.repo.SaveInteraction(ctx, interaction); err != nil {
			s.logger.WarnContext(ctx, "Failed to persist generation interaction", slog.Any("error", err))
		}
	}
	s.logger.InfoContext(ctx, "Itinerary generation finished",
		slog.String("outcome", outcome),
		slog.Duration("elapsed", elapsed),
	)
}
