package shared

import "errors"

// Error taxonomy shared by all domain packages. HTTP handlers map these with
// errors.Is; domain packages wrap them into more specific sentinels.
var (
	ErrConflict         = errors.New("entity conflict")
	ErrNotFound         = errors.New("entity not found")
	ErrValidation       = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
)
