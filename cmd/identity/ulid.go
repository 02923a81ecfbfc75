package identity

import (
	"time"

	"aureum/cmd/identity/ids"
)

// NewULID returns a new ULID (26-char string) used for user IDs.
func NewULID(now time.Time) (string, error) {
	return ids.NewULID(now)
}
