package model

import "github.com/golang-jwt/jwt/v5"

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AppClaims is the full typed claim set embedded in issued tokens. Every
// recognized claim has a field here; the dynamic-map style of carrying claims
// is deliberately avoided so a missing field fails at compile time, not at
// verification time. Claims are rebuilt from the database on every issuance.
type AppClaims struct {
	Email           string       `json:"email"`
	EmailVerified   bool         `json:"email_verified"`
	Status          UserStatus   `json:"status"`
	UserType        Role         `json:"user_type"`
	FirstName       string       `json:"first_name,omitempty"`
	LastName        string       `json:"last_name,omitempty"`
	ProfileComplete bool         `json:"profile_complete"`
	OrganizationID  string       `json:"organization_id,omitempty"`
	EmployerRole    EmployerRole `json:"role,omitempty"`
	TokenType       string       `json:"type"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim, the id of the principal the token represents.
func (c *AppClaims) UserID() string {
	return c.Subject
}
