package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/playtrackhq/playtrack/src/domain/game"
	"github.com/playtrackhq/playtrack/src/domain/session"
	"github.com/playtrackhq/playtrack/src/domain/shared"
	"github.com/playtrackhq/playtrack/src/domain/user"
)

// Service coordinates the play-session lifecycle. It holds no session state of
// its own; every operation re-reads current state from the repository.
type Service struct {
	Sessions session.Repository
	Users    user.Repository
	Games    game.Repository
	Clock    func() time.Time
	NewID    func() shared.SessionID
}

// NewService creates a new session lifecycle service.
func NewService(sessions session.Repository, users user.Repository, games game.Repository) *Service {
	return &Service{
		Sessions: sessions,
		Users:    users,
		Games:    games,
		Clock:    func() time.Time { return time.Now().UTC() },
		NewID:    func() shared.SessionID { return shared.SessionID(uuid.Must(uuid.NewV4()).String()) },
	}
}

// StartCommand contains parameters for starting a session.
type StartCommand struct {
	UserID shared.UserID
	GameID shared.GameID
}

// StartSession begins a timed play session. A user may have at most one active
// session; starting while one exists fails with a conflict.
//
// The active-session check and the insert are not atomic. With a store that
// does not enforce the one-active-session constraint itself, two concurrent
// starts for the same user can both pass the check. The Postgres store closes
// this with a partial unique index on (user_id) WHERE active, in which case
// Insert reports the same conflict.
func (s *Service) StartSession(ctx context.Context, cmd StartCommand) (*session.Session, error) {
	if err := cmd.UserID.Validate(); err != nil {
		return nil, err
	}
	if err := cmd.GameID.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.Users.Get(ctx, cmd.UserID); err != nil {
		return nil, err
	}
	if _, err := s.Games.Get(ctx, cmd.GameID); err != nil {
		return nil, err
	}

	_, err := s.Sessions.GetActiveByUser(ctx, cmd.UserID)
	switch {
	case err == nil:
		return nil, session.ErrActiveSession
	case !errors.Is(err, session.ErrNoActiveSession):
		return nil, err
	}

	sess, err := session.NewSession(s.NewID(), cmd.UserID, cmd.GameID, s.Clock())
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Insert(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// StopCommand contains parameters for ending a session. Score and Won are
// optional and recorded on the completed session for the statistics views.
type StopCommand struct {
	UserID shared.UserID
	Score  int64
	Won    bool
}

// StopSession ends the user's active session, deriving the played duration in
// whole seconds. Zero elapsed time is valid; the record still completes.
func (s *Service) StopSession(ctx context.Context, cmd StopCommand) (*session.Session, error) {
	if err := cmd.UserID.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.Sessions.GetActiveByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if err := sess.Complete(s.Clock(), cmd.Score, cmd.Won); err != nil {
		return nil, err
	}
	if err := s.Sessions.Update(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// ListByUser returns the user's sessions, newest first.
func (s *Service) ListByUser(ctx context.Context, userID shared.UserID) ([]*session.Session, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}
	return s.Sessions.ListByUser(ctx, userID)
}
