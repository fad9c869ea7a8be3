package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/playtrackhq/playtrack/src/domain/shared"
)

// User is a registered player, referenced by sessions and statistics views.
type User struct {
	ID          shared.UserID
	Username    string
	DisplayName string
	AvatarURL   string
	CreatedAt   time.Time
}

func NewUser(id shared.UserID, username, displayName, avatarURL string, now time.Time) (*User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", shared.ErrValidation)
	}
	if displayName == "" {
		displayName = username
	}
	return &User{
		ID:          id,
		Username:    username,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		CreatedAt:   now,
	}, nil
}
