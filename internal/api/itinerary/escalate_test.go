package itinerary

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSuggestAlternativeQueries(t *testing.T) {
	ai := new(MockGenerator)
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(`["планетарий", "научный музей", " технопарк ", "", 42]`, nil).Once()
	s := NewServiceImpl(nil, nil, ai, nil, nil, testConfig(), slog.Default())

	queries := s.suggestAlternativeQueries(context.Background(), "наука", []string{"музей"})
	assert.Equal(t, []string{"планетарий", "научный музей", "технопарк"}, queries)
	ai.AssertExpectations(t)
}

func TestSuggestAlternativeQueriesCap(t *testing.T) {
	ai := new(MockGenerator)
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(`["а","б","в","г","д","е","ж","з","и"]`, nil).Once()
	s := NewServiceImpl(nil, nil, ai, nil, nil, testConfig(), slog.Default())

	queries := s.suggestAlternativeQueries(context.Background(), "наука", nil)
	assert.Len(t, queries, maxAlternativeQueries)
}

func TestSuggestAlternativeQueriesFailure(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"call error", "", assert.AnError},
		{"not JSON", "ничего не придумал", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ai := new(MockGenerator)
			ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
				Return(tc.response, tc.err).Once()
			s := NewServiceImpl(nil, nil, ai, nil, nil, testConfig(), slog.Default())

			assert.Nil(t, s.suggestAlternativeQueries(context.Background(), "наука", nil))
		})
	}
}
