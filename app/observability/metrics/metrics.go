package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	GenerationsTotal          metric.Int64Counter
	GenerationDurationSeconds metric.Float64Histogram
	StageFallbacksTotal       metric.Int64Counter
	CandidatePoolSize         metric.Int64Histogram
	SearchCallsTotal          metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("CityWalkSuggestions")
		var err error
		m := &AppMetrics{}

		m.GenerationsTotal, err = meter.Int64Counter(
			"itinerary_generations_total",
			metric.WithDescription("Total number of itinerary generation requests, by outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generations_total: %v", err)
		}

		m.GenerationDurationSeconds, err = meter.Float64Histogram(
			"itinerary_generation_duration_seconds",
			metric.WithDescription("Duration of the full generation pipeline in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generation_duration_seconds: %v", err)
		}

		m.StageFallbacksTotal, err = meter.Int64Counter(
			"pipeline_stage_fallbacks_total",
			metric.WithDescription("Times a pipeline stage recovered through its deterministic fallback"),
			metric.WithUnit("{fallback}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create pipeline_stage_fallbacks_total: %v", err)
		}

		m.CandidatePoolSize, err = meter.Int64Histogram(
			"candidate_pool_size",
			metric.WithDescription("Candidate pool size after dedup and filtering"),
			metric.WithUnit("{place}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create candidate_pool_size: %v", err)
		}

		m.SearchCallsTotal, err = meter.Int64Counter(
			"place_search_calls_total",
			metric.WithDescription("Total number of place-search calls issued by the aggregator"),
			metric.WithUnit("{call}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create place_search_calls_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
