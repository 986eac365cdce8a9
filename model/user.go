package model

import "time"

type Role string

const (
	RoleCandidate Role = "CANDIDATE"
	RoleEmployer  Role = "EMPLOYER"
)

type UserStatus string

const (
	StatusPendingVerification UserStatus = "PENDING_VERIFICATION"
	StatusVerified            UserStatus = "VERIFIED"
	StatusActive              UserStatus = "ACTIVE"
	StatusSuspended           UserStatus = "SUSPENDED"
	StatusDeactivated         UserStatus = "DEACTIVATED"
)

type EmployerRole string

const (
	EmployerRoleAdmin    EmployerRole = "ADMIN"
	EmployerRoleHR       EmployerRole = "HR"
	EmployerRoleEmployer EmployerRole = "EMPLOYER"
)

// User is the unified account row for candidates and employers.
// Emails are unique across the platform.
type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Role              Role       `json:"role"`
	Status            UserStatus `json:"status"`
	EmailVerifiedAt   *time.Time `json:"email_verified_at,omitempty"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	IsProfileComplete bool       `json:"is_profile_complete"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// EmailVerified reports whether the user completed email verification.
func (u *User) EmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// UserSummary is the flattened user representation returned to the frontend.
type UserSummary struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	EmailVerified     bool       `json:"email_verified"`
	UserType          Role       `json:"user_type"`
	Status            UserStatus `json:"status"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	OrganizationName  string     `json:"organization_name,omitempty"`
	IsProfileComplete bool       `json:"is_profile_complete"`
}
