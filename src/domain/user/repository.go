package user

import (
	"context"

	"github.com/playtrackhq/playtrack/src/domain/shared"
)

// Repository manages user persistence.
type Repository interface {
	Insert(ctx context.Context, u *User) error
	Get(ctx context.Context, id shared.UserID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}
