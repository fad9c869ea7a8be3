package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/playtrackhq/playtrack/src/domain/session"
	"github.com/playtrackhq/playtrack/src/domain/shared"
)

// SessionRepository implements session.Repository using in-memory storage.
// The one-active-session-per-user constraint is enforced atomically under the
// repository lock, mirroring the partial unique index of the Postgres store.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[shared.SessionID]*session.Session
}

// NewSessionRepository creates a new in-memory session repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[shared.SessionID]*session.Session),
	}
}

// Insert stores a new session. Inserting a second active session for the same
// user fails with ErrActiveSession.
func (r *SessionRepository) Insert(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.Active {
		for _, existing := range r.sessions {
			if existing.UserID == s.UserID && existing.Active {
				return session.ErrActiveSession
			}
		}
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

// Update replaces a stored session.
func (r *SessionRepository) Update(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID]; !exists {
		return session.ErrSessionNotFound
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(ctx context.Context, id shared.SessionID) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.sessions[id]
	if !exists {
		return nil, session.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

// GetActiveByUser retrieves the user's in-progress session, if any.
func (r *SessionRepository) GetActiveByUser(ctx context.Context, userID shared.UserID) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.UserID == userID && s.Active {
			cp := *s
			return &cp, nil
		}
	}
	return nil, session.ErrNoActiveSession
}

// ListByUser retrieves the user's sessions, newest first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID shared.UserID) ([]*session.Session, error) {
	return r.list(func(s *session.Session) bool { return s.UserID == userID }), nil
}

// ListByGame retrieves all sessions of a game, newest first.
func (r *SessionRepository) ListByGame(ctx context.Context, gameID shared.GameID) ([]*session.Session, error) {
	return r.list(func(s *session.Session) bool { return s.GameID == gameID }), nil
}

// ListCompleted retrieves all completed sessions.
func (r *SessionRepository) ListCompleted(ctx context.Context) ([]*session.Session, error) {
	return r.list(func(s *session.Session) bool { return !s.Active }), nil
}

// ListSince retrieves sessions created at or after the given time.
func (r *SessionRepository) ListSince(ctx context.Context, since time.Time) ([]*session.Session, error) {
	return r.list(func(s *session.Session) bool { return !s.CreatedAt.Before(since) }), nil
}

func (r *SessionRepository) list(match func(*session.Session) bool) []*session.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*session.Session, 0)
	for _, s := range r.sessions {
		if match(s) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
