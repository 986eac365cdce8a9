package model

import "time"

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   string    `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CandidateProfile struct {
	UserID      string    `json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Headline    string    `json:"headline,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Location    string    `json:"location,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Complete reports whether the profile carries the minimum fields required
// to mark the owning user as profile_complete.
func (p *CandidateProfile) Complete() bool {
	return p.FirstName != "" && p.LastName != "" && p.Headline != "" && p.Location != ""
}

type EmployerProfile struct {
	UserID         string       `json:"user_id"`
	OrganizationID string       `json:"organization_id"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	JobTitle       string       `json:"job_title,omitempty"`
	Role           EmployerRole `json:"role"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (p *EmployerProfile) Complete() bool {
	return p.FirstName != "" && p.LastName != "" && p.OrganizationID != ""
}
