package session

import (
	"fmt"

	"github.com/playtrackhq/playtrack/src/domain/shared"
)

var (
	ErrSessionNotFound  = fmt.Errorf("%w: session", shared.ErrNotFound)
	ErrNoActiveSession  = fmt.Errorf("%w: no active session for user", shared.ErrNotFound)
	ErrActiveSession    = fmt.Errorf("%w: user already has an active session", shared.ErrConflict)
	ErrSessionCompleted = fmt.Errorf("%w: session already completed", shared.ErrConflict)
	ErrInvalidStartTime = fmt.Errorf("%w: start time is required", shared.ErrValidation)
	ErrInvalidEndTime   = fmt.Errorf("%w: end time cannot be before start time", shared.ErrValidation)
)
