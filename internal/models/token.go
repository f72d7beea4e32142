package models

import "time"

// RefreshToken represents a persisted refresh token session. Only the
// SHA-256 hash of the token is stored.
type RefreshToken struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	TokenHash string    `db:"token_hash" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Revoked   bool      `db:"revoked" json:"revoked"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Active reports whether the session can still be used at t.
func (t *RefreshToken) Active(at time.Time) bool {
	return t != nil && !t.Revoked && at.Before(t.ExpiresAt)
}
