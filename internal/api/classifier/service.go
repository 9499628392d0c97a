package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	generativeAI "github.com/citywalk/go-walk-suggestions/internal/api/generative_ai"
	"github.com/citywalk/go-walk-suggestions/internal/types"
)

const (
	maxQueriesPerCategory = 6
	maxQueryRunes         = 40

	classifyTemperature float32 = 0.1
)

var _ Service = (*ServiceImpl)(nil)

// Service turns free-text interests into a category -> query-list map.
// The result is never fully empty.
type Service interface {
	Classify(ctx context.Context, interests string) (types.CategoryMap, types.Provenance)
}

type ServiceImpl struct {
	logger *slog.Logger
	ai     generativeAI.Generator
}

func NewServiceImpl(ai generativeAI.Generator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		ai:     ai,
	}
}

func getClassifyPrompt(interests string) string {
	return fmt.Sprintf(`Ты классифицируешь интересы пользователя для поиска мест в городе.
Верни ТОЛЬКО JSON-объект с ключами: history, art, food, parks, views.
Значение каждого ключа — массив из не более чем 6 коротких поисковых запросов (1-3 слова) на русском языке.
Если категория не относится к интересам — верни для неё пустой массив.

Интересы: %s`, interests)
}

// Classify delegates to the generative capability and sanitizes the
// result; on any failure it falls back to the deterministic rule table.
func (s *ServiceImpl) Classify(ctx context.Context, interests string) (types.CategoryMap, types.Provenance) {
	ctx, span := otel.Tracer("ClassifierService").Start(ctx, "Classify")
	defer span.End()

	text := strings.TrimSpace(interests)

	cats, err := s.classifyWithAI(ctx, text)
	if err == nil {
		span.SetAttributes(attribute.String("classifier.source", string(types.ProvenanceAI)))
		return cats, types.ProvenanceAI
	}
	s.logger.WarnContext(ctx, "AI classification failed, using heuristic rules", slog.Any("error", err))
	span.SetAttributes(attribute.String("classifier.source", string(types.ProvenanceFallback)))

	return s.classifyHeuristically(text), types.ProvenanceFallback
}

func (s *ServiceImpl) classifyWithAI(ctx context.Context, text string) (types.CategoryMap, error) {
	config := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](classifyTemperature)}
	txt, err := s.ai.GenerateContent(ctx, getClassifyPrompt(text), config)
	if err != nil {
		return nil, fmt.Errorf("failed to classify interests: %w", err)
	}

	jsonStr := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(txt), "```json"), "```")
	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(jsonStr)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse classification JSON: %w", err)
	}

	// Sanitize: only the fixed key set survives, only string/number
	// values become queries, each bounded in length and count.
	out := make(types.CategoryMap, len(types.AllCategories))
	for _, cat := range types.AllCategories {
		out[cat] = sanitizeQueries(raw[cat])
	}
	return out, nil
}

func sanitizeQueries(v any) []string {
	vals, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(vals))
	for _, item := range vals {
		var q string
		switch t := item.(type) {
		case string:
			q = t
		case float64:
			q = fmt.Sprintf("%g", t)
		default:
			continue
		}
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if runes := []rune(q); len(runes) > maxQueryRunes {
			q = string(runes[:maxQueryRunes])
		}
		out = append(out, q)
		if len(out) == maxQueriesPerCategory {
			break
		}
	}
	return out
}

func (s *ServiceImpl) classifyHeuristically(text string) types.CategoryMap {
	l := strings.ToLower(text)

	result := make(types.CategoryMap, len(types.AllCategories))
	for _, cat := range types.AllCategories {
		result[cat] = []string{}
	}

	for _, rule := range heuristicRules {
		if rule.matches(l) {
			result[rule.category] = mergeQueries(result[rule.category], rule.queries)
		}
	}

	// Dining only on explicit request, and never when the text is
	// park-dominant.
	if ContainsAny(l, FoodKeywords) && !ContainsAny(l, ParkKeywords) {
		result[types.CategoryFood] = mergeQueries(result[types.CategoryFood], genericFoodQueries)
	}

	if result.IsEmpty() {
		for cat, queries := range defaultCategories {
			result[cat] = append([]string(nil), queries...)
		}
	}
	return result
}
