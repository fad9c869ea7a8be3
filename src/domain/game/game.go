package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/playtrackhq/playtrack/src/domain/shared"
)

// Game is a catalog entry users can play timed sessions of.
type Game struct {
	ID        shared.GameID
	Name      string
	Category  string
	CreatedAt time.Time
}

func NewGame(id shared.GameID, name, category string, now time.Time) (*Game, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: game name is required", shared.ErrValidation)
	}
	return &Game{
		ID:        id,
		Name:      name,
		Category:  category,
		CreatedAt: now,
	}, nil
}
