package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/citywalk/go-walk-suggestions/internal/types"
)

func selectorCandidates(n int) []types.Place {
	out := make([]types.Place, n)
	for i := range out {
		out[i] = types.Place{Name: fmt.Sprintf("Место %d", i)}
	}
	return out
}

func newSelectorService(ai *MockGenerator) *ServiceImpl {
	return NewServiceImpl(nil, nil, ai, nil, nil, testConfig(), slog.Default())
}

func TestSelectBestPlacesPassthrough(t *testing.T) {
	ai := new(MockGenerator)
	s := newSelectorService(ai)

	candidates := selectorCandidates(4)
	selected, prov := s.selectBestPlaces(context.Background(), candidates, "музеи", 5)

	assert.Equal(t, candidates, selected)
	assert.Equal(t, types.ProvenanceAI, prov)
	ai.AssertNotCalled(t, "GenerateContent")
}

func TestSelectBestPlacesAIRanking(t *testing.T) {
	ai := new(MockGenerator)
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("```json\n[7, 2, 7, 0, 5]\n```", nil).Once()
	s := newSelectorService(ai)

	selected, prov := s.selectBestPlaces(context.Background(), selectorCandidates(10), "музеи", 4)

	require.Len(t, selected, 4, "duplicate index must be dropped")
	assert.Equal(t, "Место 7", selected[0].Name)
	assert.Equal(t, "Место 2", selected[1].Name)
	assert.Equal(t, "Место 0", selected[2].Name)
	assert.Equal(t, "Место 5", selected[3].Name)
	assert.Equal(t, types.ProvenanceAI, prov)
	ai.AssertExpectations(t)
}

func TestSelectBestPlacesFallback(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"call error", "", assert.AnError},
		{"not JSON", "нет мест", nil},
		{"non-integer index", "[1, 2.5, 3]", nil},
		{"too few valid indices", "[50, 60, 1, 2]", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ai := new(MockGenerator)
			ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
				Return(tc.response, tc.err).Once()
			s := newSelectorService(ai)

			candidates := selectorCandidates(10)
			selected, prov := s.selectBestPlaces(context.Background(), candidates, "музеи", 4)

			assert.Equal(t, candidates[:4], selected)
			assert.Equal(t, types.ProvenanceFallback, prov)
		})
	}
}

func TestTargetStops(t *testing.T) {
	assert.Equal(t, 3, targetStops(1, 3, 5))
	assert.Equal(t, 4, targetStops(2, 3, 5))
	assert.Equal(t, 5, targetStops(2.5, 3, 5))
	assert.Equal(t, 5, targetStops(8, 3, 5))
}
