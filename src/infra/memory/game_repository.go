package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/playtrackhq/playtrack/src/domain/game"
	"github.com/playtrackhq/playtrack/src/domain/shared"
)

// GameRepository implements game.Repository using in-memory storage.
type GameRepository struct {
	mu    sync.RWMutex
	games map[shared.GameID]*game.Game
}

// NewGameRepository creates a new in-memory game repository.
func NewGameRepository() *GameRepository {
	return &GameRepository{
		games: make(map[shared.GameID]*game.Game),
	}
}

// Insert stores a game.
func (r *GameRepository) Insert(ctx context.Context, g *game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *g
	r.games[g.ID] = &cp
	return nil
}

// Get retrieves a game by ID.
func (r *GameRepository) Get(ctx context.Context, id shared.GameID) (*game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, exists := r.games[id]
	if !exists {
		return nil, game.ErrGameNotFound
	}
	cp := *g
	return &cp, nil
}

// List retrieves the catalog ordered by name, optionally filtered by category.
func (r *GameRepository) List(ctx context.Context, category string) ([]*game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*game.Game, 0, len(r.games))
	for _, g := range r.games {
		if category != "" && g.Category != category {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
