package session

import (
	"context"
	"time"

	"github.com/playtrackhq/playtrack/src/domain/shared"
)

// Repository manages session persistence. The store is the sole source of truth
// for session state; services never cache sessions between requests.
//
// GetActiveByUser returns ErrNoActiveSession when the user has no session in
// progress. Insert returns ErrActiveSession when the store enforces the
// one-active-session-per-user constraint and it is violated.
type Repository interface {
	Insert(ctx context.Context, s *Session) error
	Update(ctx context.Context, s *Session) error
	Get(ctx context.Context, id shared.SessionID) (*Session, error)
	GetActiveByUser(ctx context.Context, userID shared.UserID) (*Session, error)
	ListByUser(ctx context.Context, userID shared.UserID) ([]*Session, error)
	ListByGame(ctx context.Context, gameID shared.GameID) ([]*Session, error)
	ListCompleted(ctx context.Context) ([]*Session, error)
	ListSince(ctx context.Context, since time.Time) ([]*Session, error)
}
