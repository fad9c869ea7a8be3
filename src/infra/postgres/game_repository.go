package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/playtrackhq/playtrack/src/domain/game"
	"github.com/playtrackhq/playtrack/src/domain/shared"
)

// GameRepository implements game.Repository on Postgres.
type GameRepository struct {
	store *Store
}

func NewGameRepository(store *Store) *GameRepository {
	return &GameRepository{store: store}
}

func (r *GameRepository) Insert(ctx context.Context, g *game.Game) error {
	_, err := r.store.pool.Exec(ctx, `
		INSERT INTO games (id, name, category, created_at)
		VALUES ($1, $2, $3, $4)`,
		g.ID, g.Name, g.Category, g.CreatedAt)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *GameRepository) Get(ctx context.Context, id shared.GameID) (*game.Game, error) {
	row := r.store.pool.QueryRow(ctx, `
		SELECT id, name, category, created_at FROM games WHERE id = $1`, id)
	var g game.Game
	err := row.Scan(&g.ID, &g.Name, &g.Category, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, game.ErrGameNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &g, nil
}

func (r *GameRepository) List(ctx context.Context, category string) ([]*game.Game, error) {
	sql := `SELECT id, name, category, created_at FROM games ORDER BY name`
	args := []any{}
	if category != "" {
		sql = `SELECT id, name, category, created_at FROM games WHERE category = $1 ORDER BY name`
		args = append(args, category)
	}
	rows, err := r.store.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []*game.Game
	for rows.Next() {
		var g game.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.Category, &g.CreatedAt); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}
