package itinerary

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/citywalk/go-walk-suggestions/internal/api"
	"github.com/citywalk/go-walk-suggestions/internal/api/places"
	"github.com/citywalk/go-walk-suggestions/internal/api/session"
	"github.com/citywalk/go-walk-suggestions/internal/types"
)

const maxTimeHours = 12

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GenerateItinerary(w http.ResponseWriter, r *http.Request)
	StartSession(w http.ResponseWriter, r *http.Request)
	AnswerSession(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
	ResetSession(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service  Service
	sessions session.Store
	logger   *slog.Logger
}

func NewHandlerImpl(service Service, sessions session.Store, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

type generateRequest struct {
	UserID       string          `json:"user_id"`
	Interests    string          `json:"interests"`
	TimeHours    float64         `json:"time_hours"`
	OriginText   string          `json:"origin_text,omitempty"`
	OriginCoords *types.GeoPoint `json:"origin_coords,omitempty"`
}

type answerRequest struct {
	Answer string          `json:"answer,omitempty"`
	Coords *types.GeoPoint `json:"coords,omitempty"`
}

type sessionResponse struct {
	Session *types.PlanSession             `json:"session"`
	Result  *types.GenerateItineraryResult `json:"result,omitempty"`
}

// GenerateItinerary runs the pipeline directly, without the step form.
func (h *HandlerImpl) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "GenerateItinerary"))

	var req generateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid generation request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Interests) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "interests must not be empty")
		return
	}
	if req.TimeHours < 0 || req.TimeHours > maxTimeHours {
		api.ErrorResponse(w, r, http.StatusBadRequest, "time_hours must be between 0 and 12")
		return
	}

	result, err := h.service.GenerateItinerary(ctx, types.GenerateItineraryRequest{
		UserID:       req.UserID,
		Interests:    req.Interests,
		TimeHours:    req.TimeHours,
		OriginText:   req.OriginText,
		OriginCoords: req.OriginCoords,
	})
	if err != nil {
		l.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate itinerary")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// StartSession opens a fresh question form for the user, dropping any
// answers collected so far.
func (h *HandlerImpl) StartSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "user ID is required")
		return
	}

	s := h.sessions.Start(userID)
	api.WriteJSONResponse(w, r, http.StatusCreated, sessionResponse{Session: s})
}

// AnswerSession feeds one answer into the form. The three steps are
// interests, time and location; completing the last one runs the
// generation pipeline and returns its result alongside the session.
func (h *HandlerImpl) AnswerSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "AnswerSession"))

	userID := chi.URLParam(r, "userID")
	s, found := h.sessions.Get(userID)
	if !found {
		api.ErrorResponse(w, r, http.StatusNotFound, "no active session, start one first")
		return
	}

	var req answerRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid answer body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	answer := strings.TrimSpace(req.Answer)

	switch s.Step {
	case types.StepInterests:
		if answer == "" {
			api.ErrorResponse(w, r, http.StatusBadRequest, "interests must not be empty")
			return
		}
		s.Interests = answer
		s.Step = types.StepTime

	case types.StepTime:
		hours, err := parseTimeHours(answer)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "time must be a number of hours between 0.5 and 12")
			return
		}
		s.TimeHours = hours
		s.Step = types.StepLocation

	case types.StepLocation:
		// Either explicit coordinates or free text; both empty means
		// the user skipped, the pipeline then starts from the center.
		if req.Coords != nil {
			s.LocationCoords = req.Coords
		} else if p, ok := places.ParseLatLon(answer); ok {
			s.LocationCoords = p
		} else {
			s.LocationText = answer
		}
		s.Step = types.StepDone

	default:
		api.ErrorResponse(w, r, http.StatusConflict, "session already completed, reset to plan again")
		return
	}
	h.sessions.Save(s)

	resp := sessionResponse{Session: s}
	if s.Step == types.StepDone {
		result, err := h.service.GenerateItinerary(ctx, types.GenerateItineraryRequest{
			UserID:       s.UserID,
			Interests:    s.Interests,
			TimeHours:    s.TimeHours,
			OriginText:   s.LocationText,
			OriginCoords: s.LocationCoords,
		})
		if err != nil {
			l.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate itinerary")
			return
		}
		resp.Result = result
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

func (h *HandlerImpl) GetSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	s, found := h.sessions.Get(userID)
	if !found {
		api.ErrorResponse(w, r, http.StatusNotFound, "no active session")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, sessionResponse{Session: s})
}

func (h *HandlerImpl) ResetSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	h.sessions.Reset(userID)
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func parseTimeHours(answer string) (float64, error) {
	answer = strings.ReplaceAll(answer, ",", ".")
	hours, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return 0, err
	}
	if hours < 0.5 || hours > maxTimeHours {
		return 0, strconv.ErrRange
	}
	return hours, nil
}
