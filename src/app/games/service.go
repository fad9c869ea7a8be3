package games

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/playtrackhq/playtrack/src/domain/game"
	"github.com/playtrackhq/playtrack/src/domain/shared"
)

// Service coordinates the game catalog.
type Service struct {
	Games game.Repository
	Clock func() time.Time
	NewID func() shared.GameID
}

func NewService(games game.Repository) *Service {
	return &Service{
		Games: games,
		Clock: func() time.Time { return time.Now().UTC() },
		NewID: func() shared.GameID { return shared.GameID(uuid.Must(uuid.NewV4()).String()) },
	}
}

// AddCommand contains parameters for adding a game to the catalog.
type AddCommand struct {
	Name     string
	Category string
}

func (s *Service) Add(ctx context.Context, cmd AddCommand) (*game.Game, error) {
	g, err := game.NewGame(s.NewID(), cmd.Name, cmd.Category, s.Clock())
	if err != nil {
		return nil, err
	}
	if err := s.Games.Insert(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) Get(ctx context.Context, id shared.GameID) (*game.Game, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return s.Games.Get(ctx, id)
}

// List returns the catalog, optionally filtered by category.
func (s *Service) List(ctx context.Context, category string) ([]*game.Game, error) {
	return s.Games.List(ctx, category)
}
