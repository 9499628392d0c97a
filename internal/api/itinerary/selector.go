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
	selectTemperature float32 = 0.2

	// A ranking shorter than this is not worth trusting.
	minValidSelection = 3
)

// selectBestPlaces asks the model to rank the candidate pool and keep
// the best targetCount entries. Any failure, from the call itself to an
// index out of range, degrades to the first targetCount candidates.
func (s *ServiceImpl) selectBestPlaces(ctx context.Context, candidates []types.Place, interests string, targetCount int) ([]types.Place, types.Provenance) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "selectBestPlaces")
	defer span.End()
	span.SetAttributes(
		attribute.Int("select.candidates", len(candidates)),
		attribute.Int("select.target", targetCount),
	)

	if len(candidates) <= targetCount {
		span.SetAttributes(attribute.String("select.source", "passthrough"))
		return candidates, types.ProvenanceAI
	}

	selected, err := s.selectWithAI(ctx, candidates, interests, targetCount)
	if err == nil {
		span.SetAttributes(attribute.String("select.source", string(types.ProvenanceAI)))
		return selected, types.ProvenanceAI
	}
	s.logger.WarnContext(ctx, "AI place selection failed, keeping first candidates", slog.Any("error", err))
	span.SetAttributes(attribute.String("select.source", string(types.ProvenanceFallback)))

	return candidates[:targetCount], types.ProvenanceFallback
}

func (s *ServiceImpl) selectWithAI(ctx context.Context, candidates []types.Place, interests string, targetCount int) ([]types.Place, error) {
	config := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](selectTemperature)}
	txt, err := s.ai.GenerateContent(ctx, getSelectPlacesPrompt(candidates, interests, targetCount), config)
	if err != nil {
		return nil, fmt.Errorf("failed to rank places: %w", err)
	}

	indices, err := parseIndices(cleanJSONResponse(txt))
	if err != nil {
		return nil, err
	}

	// Only in-range, first-seen indices survive. The ranking prompt
	// shows at most maxRankingCandidates entries, so bound by both.
	limit := len(candidates)
	if limit > maxRankingCandidates {
		limit = maxRankingCandidates
	}
	seen := make(map[int]struct{}, len(indices))
	selected := make([]types.Place, 0, targetCount)
	for _, idx := range indices {
		if idx < 0 || idx >= limit {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		selected = append(selected, candidates[idx])
		if len(selected) == targetCount {
			break
		}
	}
	if len(selected) < minValidSelection {
		return nil, fmt.Errorf("ranking returned only %d usable indices", len(selected))
	}
	return selected, nil
}
