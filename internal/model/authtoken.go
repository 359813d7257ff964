package model

import "time"

// AuthToken is a single-use magic-link token. One row per email; a new
// request for the same address replaces the previous token.
type AuthToken struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
}
