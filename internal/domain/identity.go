package domain

import "time"

// Identity is the verified claim set extracted from a request token. It lives
// for a single request and is never persisted.
type Identity struct {
	SubjectID int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the identity is past its expiry at the given instant.
func (i Identity) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
