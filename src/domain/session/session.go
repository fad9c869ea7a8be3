package session

import (
	"time"

	"github.com/playtrackhq/playtrack/src/domain/shared"
)

// Session aggregate tracks one timed play event for a (user, game) pair. It is
// created Active and transitions exactly once to Completed; completed sessions
// are immutable.
type Session struct {
	ID              shared.SessionID
	UserID          shared.UserID
	GameID          shared.GameID
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationSeconds int64
	Active          bool
	Score           int64
	Won             bool
	CreatedAt       time.Time
}

// NewSession creates a new active session.
func NewSession(id shared.SessionID, userID shared.UserID, gameID shared.GameID, startedAt time.Time) (*Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := userID.Validate(); err != nil {
		return nil, err
	}
	if err := gameID.Validate(); err != nil {
		return nil, err
	}
	if startedAt.IsZero() {
		return nil, ErrInvalidStartTime
	}
	return &Session{
		ID:        id,
		UserID:    userID,
		GameID:    gameID,
		StartedAt: startedAt,
		Active:    true,
		CreatedAt: startedAt,
	}, nil
}

// Complete marks the session as finished, deriving the played duration as whole
// elapsed seconds rounded down. End timestamp and duration are set together and
// only here; calling Complete on a completed session is an error.
func (s *Session) Complete(endedAt time.Time, score int64, won bool) error {
	if !s.Active {
		return ErrSessionCompleted
	}
	if endedAt.Before(s.StartedAt) {
		return ErrInvalidEndTime
	}
	elapsed := int64(endedAt.Sub(s.StartedAt) / time.Second)
	s.EndedAt = &endedAt
	s.DurationSeconds = elapsed
	s.Active = false
	s.Score = score
	s.Won = won
	return nil
}

// IsActive reports whether the session is still in progress.
func (s *Session) IsActive() bool {
	return s.Active
}

// Duration returns the recorded play time for completed sessions, or time
// elapsed so far for active ones.
func (s *Session) Duration() time.Duration {
	if s.EndedAt == nil {
		return time.Since(s.StartedAt)
	}
	return s.EndedAt.Sub(s.StartedAt)
}
