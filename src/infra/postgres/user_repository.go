package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/playtrackhq/playtrack/src/domain/shared"
	"github.com/playtrackhq/playtrack/src/domain/user"
)

// UserRepository implements user.Repository on Postgres.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Insert(ctx context.Context, u *user.User) error {
	_, err := r.store.pool.Exec(ctx, `
		INSERT INTO users (id, username, display_name, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Username, u.DisplayName, u.AvatarURL, u.CreatedAt)
	if err != nil {
		if uniqueViolation(err, "users_username_key") {
			return user.ErrUsernameTaken
		}
		return storeErr(err)
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id shared.UserID) (*user.User, error) {
	row := r.store.pool.QueryRow(ctx, `
		SELECT id, username, display_name, avatar_url, created_at FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	row := r.store.pool.QueryRow(ctx, `
		SELECT id, username, display_name, avatar_url, created_at FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	rows, err := r.store.pool.Query(ctx, `
		SELECT id, username, display_name, avatar_url, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []*user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.AvatarURL, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &u, nil
}
