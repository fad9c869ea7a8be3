package user

import (
	"fmt"

	"github.com/playtrackhq/playtrack/src/domain/shared"
)

var (
	ErrUserNotFound  = fmt.Errorf("%w: user", shared.ErrNotFound)
	ErrUsernameTaken = fmt.Errorf("%w: username already taken", shared.ErrConflict)
)
