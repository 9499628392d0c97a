package itinerary

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

const (
	escalateTemperature float32 = 0.7

	maxAlternativeQueries = 7
)

// suggestAlternativeQueries asks the model for fresh search phrasings
// after the first pass found too little. It has no fallback: a nil
// result simply means the escalation round is skipped.
func (s *ServiceImpl) suggestAlternativeQueries(ctx context.Context, interests string, tried []string) []string {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "suggestAlternativeQueries")
	defer span.End()

	config := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](escalateTemperature)}
	txt, err := s.ai.GenerateContent(ctx, getAlternativeQueriesPrompt(interests, tried), config)
	if err != nil {
		s.logger.WarnContext(ctx, "Alternative query suggestion failed", slog.Any("error", err))
		return nil
	}

	queries, err := parseAlternativeQueries(cleanJSONResponse(txt))
	if err != nil {
		s.logger.WarnContext(ctx, "Alternative query response unparseable", slog.Any("error", err))
		return nil
	}
	if len(queries) > maxAlternativeQueries {
		queries = queries[:maxAlternativeQueries]
	}
	span.SetAttributes(attribute.Int("escalate.queries", len(queries)))
	return queries
}
