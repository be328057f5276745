package domain

import "time"

// RefreshToken is one issued refresh credential, persisted so that it can be
// revoked server-side. The signed token string itself is the lookup key.
type RefreshToken struct {
	ID        string // uuid
	Token     string
	UserID    int64
	ExpiresAt time.Time
	IsRevoked bool
	CreatedAt time.Time
}

// Usable reports whether the record itself still admits the token.
// Callers must additionally check that the owning user is active.
func (t RefreshToken) Usable(now time.Time) bool {
	return !t.IsRevoked && t.ExpiresAt.After(now)
}
