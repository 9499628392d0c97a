package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/citywalk/go-walk-suggestions/internal/api/itinerary"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ItineraryHandler itinerary.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected
// to be applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/itineraries/generate", cfg.ItineraryHandler.GenerateItinerary)

		r.Route("/sessions/{userID}", func(r chi.Router) {
			r.Post("/", cfg.ItineraryHandler.StartSession)
			r.Get("/", cfg.ItineraryHandler.GetSession)
			r.Post("/answers", cfg.ItineraryHandler.AnswerSession)
			r.Delete("/", cfg.ItineraryHandler.ResetSession)
		})
	})

	return r
}
