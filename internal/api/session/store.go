package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/citywalk/go-walk-suggestions/internal/types"
)

const (
	defaultTTL      = 24 * time.Hour
	cleanupInterval = 1 * time.Hour
)

var _ Store = (*CacheStore)(nil)

// Store keeps per-user plan sessions while the question form is being
// filled in. Sessions are transient; losing one just restarts the form.
type Store interface {
	Start(userID string) *types.PlanSession
	Get(userID string) (*types.PlanSession, bool)
	Save(session *types.PlanSession)
	Reset(userID string)
}

type CacheStore struct {
	logger   *slog.Logger
	sessions *cache.Cache
}

func NewCacheStore(logger *slog.Logger) *CacheStore {
	return &CacheStore{
		logger:   logger,
		sessions: cache.New(defaultTTL, cleanupInterval),
	}
}

// Start creates a fresh session for the user, replacing any existing
// one, and positions it at the first form step.
func (s *CacheStore) Start(userID string) *types.PlanSession {
	now := time.Now()
	session := &types.PlanSession{
		ID:        uuid.New(),
		UserID:    userID,
		Step:      types.StepInterests,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions.Set(userID, session, cache.DefaultExpiration)
	s.logger.Debug("Plan session started", slog.String("user_id", userID))
	return session
}

func (s *CacheStore) Get(userID string) (*types.PlanSession, bool) {
	v, found := s.sessions.Get(userID)
	if !found {
		return nil, false
	}
	session, ok := v.(*types.PlanSession)
	return session, ok
}

func (s *CacheStore) Save(session *types.PlanSession) {
	session.UpdatedAt = time.Now()
	s.sessions.Set(session.UserID, session, cache.DefaultExpiration)
}

func (s *CacheStore) Reset(userID string) {
	s.sessions.Delete(userID)
	s.logger.Debug("Plan session reset", slog.String("user_id", userID))
}
