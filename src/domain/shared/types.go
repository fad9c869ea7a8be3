package shared

import (
	"fmt"
	"strings"
)

// ID types keep domain entities distinct while remaining simple strings at runtime.
type (
	UserID    string
	GameID    string
	SessionID string
)

// Validate ensures IDs are not blank and normalized.
func (id UserID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	return nil
}

func (id GameID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("%w: game id is required", ErrValidation)
	}
	return nil
}

func (id SessionID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("%w: session id is required", ErrValidation)
	}
	return nil
}
