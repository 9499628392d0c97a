package itinerary

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	"github.com/citywalk/go-walk-suggestions/internal/types"
)

const (
	enrichTemperature float32 = 0.3

	fallbackExplanation = "Интересное место по вашим запросам"
)

// enrichPlaces fills Rationale and StayMinutes for every shortlisted
// place with one model call. If the response is missing, malformed or
// shorter than the shortlist, ALL places get the uniform fallback; a
// half-enriched shortlist reads worse than a plainly honest one.
func (s *ServiceImpl) enrichPlaces(ctx context.Context, shortlist []types.Place, interests string) ([]types.Place, types.Provenance) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "enrichPlaces")
	defer span.End()
	span.SetAttributes(attribute.Int("enrich.places", len(shortlist)))

	enriched, err := s.enrichWithAI(ctx, shortlist, interests)
	if err == nil {
		span.SetAttributes(attribute.String("enrich.source", string(types.ProvenanceAI)))
		return enriched, types.ProvenanceAI
	}
	s.logger.WarnContext(ctx, "AI enrichment failed, using uniform defaults", slog.Any("error", err))
	span.SetAttributes(attribute.String("enrich.source", string(types.ProvenanceFallback)))

	out := make([]types.Place, len(shortlist))
	for i, p := range shortlist {
		p.Rationale = fallbackExplanation
		p.StayMinutes = s.cfg.Itinerary.DefaultStayMinutes
		out[i] = p
	}
	return out, types.ProvenanceFallback
}

func (s *ServiceImpl) enrichWithAI(ctx context.Context, shortlist []types.Place, interests string) ([]types.Place, error) {
	config := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](enrichTemperature)}
	txt, err := s.ai.GenerateContent(ctx, getEnrichmentPrompt(shortlist, interests), config)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich places: %w", err)
	}

	records, err := parseEnrichmentRecords(cleanJSONResponse(txt))
	if err != nil {
		return nil, err
	}
	if len(records) < len(shortlist) {
		return nil, fmt.Errorf("enrichment returned %d records for %d places", len(records), len(shortlist))
	}

	out := make([]types.Place, len(shortlist))
	for i, p := range shortlist {
		rec := records[i]
		if expl := rec.Explanation; expl != "" {
			p.Rationale = expl
		} else {
			p.Rationale = fallbackExplanation
		}
		p.StayMinutes = s.sanitizeStayMinutes(rec.Minutes)
		out[i] = p
	}
	return out, nil
}

// sanitizeStayMinutes clamps a raw minutes value to the configured
// range; anything non-numeric or out of range becomes the default.
func (s *ServiceImpl) sanitizeStayMinutes(raw any) int {
	f, ok := raw.(float64)
	if !ok {
		return s.cfg.Itinerary.DefaultStayMinutes
	}
	minutes := int(f)
	if minutes < s.cfg.Itinerary.MinStayMinutes || minutes > s.cfg.Itinerary.MaxStayMinutes {
		return s.cfg.Itinerary.DefaultStayMinutes
	}
	return minutes
}
