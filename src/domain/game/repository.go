package game

import (
	"context"

	"github.com/playtrackhq/playtrack/src/domain/shared"
)

// Repository manages the game catalog.
type Repository interface {
	Insert(ctx context.Context, g *Game) error
	Get(ctx context.Context, id shared.GameID) (*Game, error)
	List(ctx context.Context, category string) ([]*Game, error)
}
