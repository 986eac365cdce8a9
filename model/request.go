package model

type RegisterRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8,max=72"`
	UserType         Role   `json:"user_type" validate:"required,oneof=CANDIDATE EMPLOYER"`
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name" validate:"required"`
	OrganizationName string `json:"organization_name" validate:"required_if=UserType EMPLOYER"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RevokeSessionRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type CandidateProfileRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Headline    string `json:"headline" validate:"max=160"`
	Summary     string `json:"summary" validate:"max=4000"`
	Location    string `json:"location" validate:"max=120"`
	PhoneNumber string `json:"phone_number" validate:"max=32"`
}

type EmployerProfileRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	JobTitle  string `json:"job_title" validate:"max=120"`
}
