// file: model/session.go

package model

import "time"

// Session holds one refresh-token session row. The raw refresh token is never
// stored; TokenID is the jti claim embedded in the token and is unique across
// all rows. Rotation revokes the old row and inserts a new one, so the table
// is an append-only audit trail of every refresh token ever issued.
type Session struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	TokenID    string     `json:"-"`
	Device     string     `json:"device,omitempty"`
	IPAddress  string     `json:"ip_address,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// Active reports whether the session can still redeem its refresh token.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}
