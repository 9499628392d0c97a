package classifier

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/genai"

	"github.com/citywalk/go-walk-suggestions/internal/types"
)

// MockGenerator is a mock implementation of generativeAI.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

func TestClassifyAIPath(t *testing.T) {
	mockAI := new(MockGenerator)
	logger := slog.Default()
	service := NewServiceImpl(mockAI, logger)
	ctx := context.Background()

	response := "```json\n" +
		`{"history": ["музей", "кремль"], "art": [], "food": 42, "parks": ["парк"], "views": ["смотровая площадка", 7], "bogus": ["x"]}` +
		"\n```"
	mockAI.On("GenerateContent", ctx, mock.Anything, mock.Anything).Return(response, nil)

	cats, provenance := service.Classify(ctx, "история и парки")

	assert.Equal(t, types.ProvenanceAI, provenance)
	assert.Equal(t, []string{"музей", "кремль"}, cats[types.CategoryHistory])
	assert.Equal(t, []string{"парк"}, cats[types.CategoryParks])
	// Non-list value is sanitized to an empty list, numbers become strings.
	assert.Empty(t, cats[types.CategoryFood])
	assert.Equal(t, []string{"смотровая площадка", "7"}, cats[types.CategoryViews])
	// Keys outside the fixed set are discarded.
	_, ok := cats["bogus"]
	assert.False(t, ok)
	mockAI.AssertExpectations(t)
}

func TestClassifyFallbackOnAIFailure(t *testing.T) {
	mockAI := new(MockGenerator)
	logger := slog.Default()
	service := NewServiceImpl(mockAI, logger)
	ctx := context.Background()

	tests := []struct {
		name      string
		setupMock func()
	}{
		{
			name: "Generator Error",
			setupMock: func() {
				mockAI.On("GenerateContent", ctx, mock.Anything, mock.Anything).Return("", errors.New("timeout")).Once()
			},
		},
		{
			name: "Malformed JSON",
			setupMock: func() {
				mockAI.On("GenerateContent", ctx, mock.Anything, mock.Anything).Return("not json at all", nil).Once()
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			cats, provenance := service.Classify(ctx, "история, архитектура")

			assert.Equal(t, types.ProvenanceFallback, provenance)
			assert.False(t, cats.IsEmpty())
			assert.Contains(t, cats[types.CategoryHistory], "музей")
			mockAI.AssertExpectations(t)
		})
	}
}

func TestClassifyHeuristicRules(t *testing.T) {
	mockAI := new(MockGenerator)
	service := NewServiceImpl(mockAI, slog.Default())

	tests := []struct {
		name      string
		interests string
		check     func(t *testing.T, cats types.CategoryMap)
	}{
		{
			name:      "Cumulative Rules Deduplicate",
			interests: "история, архитектура",
			check: func(t *testing.T, cats types.CategoryMap) {
				queries := cats[types.CategoryHistory]
				seen := map[string]int{}
				for _, q := range queries {
					seen[q]++
				}
				for q, n := range seen {
					assert.Equal(t, 1, n, "query %q duplicated", q)
				}
				assert.Contains(t, queries, "кремль")
				assert.Contains(t, queries, "собор")
			},
		},
		{
			name:      "Compound Clause",
			interests: "хочу красивые места города",
			check: func(t *testing.T, cats types.CategoryMap) {
				assert.Contains(t, cats[types.CategoryViews], "смотровая площадка")
			},
		},
		{
			name:      "Food Explicit",
			interests: "где вкусно поесть",
			check: func(t *testing.T, cats types.CategoryMap) {
				assert.Equal(t, []string{"ресторан", "кафе", "кофейня", "бар"}, cats[types.CategoryFood])
			},
		},
		{
			name:      "Food Suppressed By Parks",
			interests: "погулять в парке и поесть",
			check: func(t *testing.T, cats types.CategoryMap) {
				assert.Empty(t, cats[types.CategoryFood])
				assert.NotEmpty(t, cats[types.CategoryParks])
			},
		},
		{
			name:      "Default Map When Nothing Matches",
			interests: "qwerty",
			check: func(t *testing.T, cats types.CategoryMap) {
				assert.False(t, cats.IsEmpty())
				assert.Equal(t, []string{"музей", "памятник"}, cats[types.CategoryHistory])
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cats := service.classifyHeuristically(tc.interests)
			tc.check(t, cats)
		})
	}
}

func TestCategoryMapQueriesOrder(t *testing.T) {
	cats := types.CategoryMap{
		types.CategoryViews:   {"смотровая площадка"},
		types.CategoryHistory: {"музей", "кремль"},
	}
	assert.Equal(t, []string{"музей", "кремль", "смотровая площадка"}, cats.Queries())
}
