package repositories

import "errors"

// Sentinel errors shared by the Mongo repositories. Handlers translate these
// into HTTP statuses; anything else is an internal storage failure.
var (
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")
	ErrFeedNotFound = errors.New("feed not found")
)
