package users

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/playtrackhq/playtrack/src/domain/shared"
	"github.com/playtrackhq/playtrack/src/domain/user"
)

// Service coordinates user registration and lookup.
type Service struct {
	Users user.Repository
	Clock func() time.Time
	NewID func() shared.UserID
}

func NewService(users user.Repository) *Service {
	return &Service{
		Users: users,
		Clock: func() time.Time { return time.Now().UTC() },
		NewID: func() shared.UserID { return shared.UserID(uuid.Must(uuid.NewV4()).String()) },
	}
}

// RegisterCommand contains parameters for registering a user.
type RegisterCommand struct {
	Username    string
	DisplayName string
	AvatarURL   string
}

// Register creates a new user. Usernames are unique.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*user.User, error) {
	u, err := user.NewUser(s.NewID(), cmd.Username, cmd.DisplayName, cmd.AvatarURL, s.Clock())
	if err != nil {
		return nil, err
	}

	_, err = s.Users.GetByUsername(ctx, cmd.Username)
	switch {
	case err == nil:
		return nil, user.ErrUsernameTaken
	case !errors.Is(err, user.ErrUserNotFound):
		return nil, err
	}

	if err := s.Users.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id shared.UserID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return s.Users.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*user.User, error) {
	return s.Users.List(ctx)
}
