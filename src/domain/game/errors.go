package game

import (
	"fmt"

	"github.com/playtrackhq/playtrack/src/domain/shared"
)

var ErrGameNotFound = fmt.Errorf("%w: game", shared.ErrNotFound)
