package repository

import (
	"database/sql"
	"go-jobportal-api/logger"
	"go-jobportal-api/model"
)

// IProfileRepository defines the contract for candidate and employer profile
// database operations.
type IProfileRepository interface {
	CreateCandidateProfileTx(tx *sql.Tx, profile *model.CandidateProfile) error
	GetCandidateProfile(userID string) (*model.CandidateProfile, error)
	GetCandidateProfileTx(tx *sql.Tx, userID string) (*model.CandidateProfile, error)
	UpdateCandidateProfile(profile *model.CandidateProfile) error
	CreateEmployerProfileTx(tx *sql.Tx, profile *model.EmployerProfile) error
	GetEmployerProfile(userID string) (*model.EmployerProfile, error)
	GetEmployerProfileTx(tx *sql.Tx, userID string) (*model.EmployerProfile, error)
	UpdateEmployerProfile(profile *model.EmployerProfile) error
	CreateOrganizationTx(tx *sql.Tx, org *model.Organization) error
	GetOrganization(orgID string) (*model.Organization, error)
}

// ProfileRepository implements IProfileRepository.
type ProfileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) CreateCandidateProfileTx(tx *sql.Tx, profile *model.CandidateProfile) error {
	log := logger.Log.WithField("user_id", profile.UserID)
	log.Info("Executing query to create candidate profile")

	query := `INSERT INTO candidate_profiles (user_id, first_name, last_name, headline, summary, location, phone_number)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	err := tx.QueryRow(query, profile.UserID, profile.FirstName, profile.LastName,
		profile.Headline, profile.Summary, profile.Location, profile.PhoneNumber).
		Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create candidate profile query")
		return err
	}
	return nil
}

type queryRower interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func getCandidateProfile(db queryRower, userID string) (*model.CandidateProfile, error) {
	p := &model.CandidateProfile{}
	query := `SELECT user_id, first_name, last_name, headline, summary, location, phone_number, created_at, updated_at
	          FROM candidate_profiles WHERE user_id = $1`
	err := db.QueryRow(query, userID).Scan(&p.UserID, &p.FirstName, &p.LastName,
		&p.Headline, &p.Summary, &p.Location, &p.PhoneNumber, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Log.WithField("user_id", userID).WithError(err).Error("Failed to execute get candidate profile query")
		return nil, err
	}
	return p, nil
}

// GetCandidateProfile returns (nil, nil) when the user has no candidate profile.
func (r *ProfileRepository) GetCandidateProfile(userID string) (*model.CandidateProfile, error) {
	return getCandidateProfile(r.DB, userID)
}

// GetCandidateProfileTx is GetCandidateProfile inside the caller's
// transaction, so a profile inserted earlier in the same transaction is
// visible to the read.
func (r *ProfileRepository) GetCandidateProfileTx(tx *sql.Tx, userID string) (*model.CandidateProfile, error) {
	return getCandidateProfile(tx, userID)
}

func (r *ProfileRepository) UpdateCandidateProfile(profile *model.CandidateProfile) error {
	log := logger.Log.WithField("user_id", profile.UserID)
	log.Info("Executing query to update candidate profile")

	query := `UPDATE candidate_profiles
	          SET first_name = $2, last_name = $3, headline = $4, summary = $5, location = $6, phone_number = $7, updated_at = now()
	          WHERE user_id = $1 RETURNING updated_at`
	err := r.DB.QueryRow(query, profile.UserID, profile.FirstName, profile.LastName,
		profile.Headline, profile.Summary, profile.Location, profile.PhoneNumber).Scan(&profile.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute update candidate profile query")
		return err
	}
	return nil
}

func (r *ProfileRepository) CreateEmployerProfileTx(tx *sql.Tx, profile *model.EmployerProfile) error {
	log := logger.Log.WithField("user_id", profile.UserID)
	log.Info("Executing query to create employer profile")

	query := `INSERT INTO employer_profiles (user_id, organization_id, first_name, last_name, job_title, role)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`
	err := tx.QueryRow(query, profile.UserID, profile.OrganizationID, profile.FirstName,
		profile.LastName, profile.JobTitle, profile.Role).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create employer profile query")
		return err
	}
	return nil
}

func getEmployerProfile(db queryRower, userID string) (*model.EmployerProfile, error) {
	p := &model.EmployerProfile{}
	query := `SELECT user_id, organization_id, first_name, last_name, job_title, role, created_at, updated_at
	          FROM employer_profiles WHERE user_id = $1`
	err := db.QueryRow(query, userID).Scan(&p.UserID, &p.OrganizationID, &p.FirstName,
		&p.LastName, &p.JobTitle, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Log.WithField("user_id", userID).WithError(err).Error("Failed to execute get employer profile query")
		return nil, err
	}
	return p, nil
}

// GetEmployerProfile returns (nil, nil) when the user has no employer profile.
func (r *ProfileRepository) GetEmployerProfile(userID string) (*model.EmployerProfile, error) {
	return getEmployerProfile(r.DB, userID)
}

// GetEmployerProfileTx is GetEmployerProfile inside the caller's transaction.
func (r *ProfileRepository) GetEmployerProfileTx(tx *sql.Tx, userID string) (*model.EmployerProfile, error) {
	return getEmployerProfile(tx, userID)
}

func (r *ProfileRepository) UpdateEmployerProfile(profile *model.EmployerProfile) error {
	log := logger.Log.WithField("user_id", profile.UserID)
	log.Info("Executing query to update employer profile")

	query := `UPDATE employer_profiles
	          SET first_name = $2, last_name = $3, job_title = $4, updated_at = now()
	          WHERE user_id = $1 RETURNING updated_at`
	err := r.DB.QueryRow(query, profile.UserID, profile.FirstName, profile.LastName, profile.JobTitle).
		Scan(&profile.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute update employer profile query")
		return err
	}
	return nil
}

func (r *ProfileRepository) CreateOrganizationTx(tx *sql.Tx, org *model.Organization) error {
	log := logger.Log.WithField("name", org.Name)
	log.Info("Executing query to create organization")

	query := `INSERT INTO organizations (name, website) VALUES ($1, $2) RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query, org.Name, org.Website).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create organization query")
		return err
	}
	return nil
}

// GetOrganization returns (nil, nil) when the organization does not exist.
func (r *ProfileRepository) GetOrganization(orgID string) (*model.Organization, error) {
	org := &model.Organization{}
	query := `SELECT id, name, website, created_at, updated_at FROM organizations WHERE id = $1`
	err := r.DB.QueryRow(query, orgID).Scan(&org.ID, &org.Name, &org.Website, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Log.WithField("organization_id", orgID).WithError(err).Error("Failed to execute get organization query")
		return nil, err
	}
	return org, nil
}
