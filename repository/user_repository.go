package repository

import (
	"database/sql"
	"go-jobportal-api/common"
	"go-jobportal-api/logger"
	"go-jobportal-api/model"
	"time"

	"github.com/lib/pq"
)

// IUserRepository defines the contract for user account database operations.
type IUserRepository interface {
	CreateUserTx(tx *sql.Tx, user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(userID string) (*model.User, error)
	GetUserByIDTx(tx *sql.Tx, userID string) (*model.User, error)
	UpdatePassword(userID string, passwordHash string) error
	MarkEmailVerified(userID string, verifiedAt time.Time) error
	UpdateLastLogin(userID string, loginAt time.Time) error
	SetProfileComplete(userID string, complete bool) error
}

// UserRepository implements IUserRepository.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, email, password_hash, role, status, email_verified_at, last_login_at, is_profile_complete, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&u.EmailVerifiedAt, &u.LastLoginAt, &u.IsProfileComplete, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUserTx inserts a new user inside the caller's transaction. A duplicate
// email surfaces as common.ErrConflict.
func (r *UserRepository) CreateUserTx(tx *sql.Tx, user *model.User) error {
	log := logger.Log.WithField("email", user.Email)
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (email, password_hash, role, status)
	          VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query, user.Email, user.PasswordHash, user.Role, user.Status).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			log.Warn("Duplicate email on user insert")
			return common.ErrConflict
		}
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no user
// has that email.
func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.DB.QueryRow(query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Log.WithField("email", email).WithError(err).Error("Failed to execute get user by email query")
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by id. Returns (nil, nil) when the user does
// not exist.
func (r *UserRepository) GetUserByID(userID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.DB.QueryRow(query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Log.WithField("user_id", userID).WithError(err).Error("Failed to execute get user by id query")
		return nil, err
	}
	return user, nil
}

// GetUserByIDTx is GetUserByID inside the caller's transaction. Token
// issuance reads the user through this so the claims reflect the same
// snapshot the session write belongs to.
func (r *UserRepository) GetUserByIDTx(tx *sql.Tx, userID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(tx.QueryRow(query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Log.WithField("user_id", userID).WithError(err).Error("Failed to execute get user by id query")
		return nil, err
	}
	return user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(userID string, passwordHash string) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to update user password")

	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	_, err := r.DB.Exec(query, userID, passwordHash)
	if err != nil {
		log.WithError(err).Error("Failed to execute update password query")
		return err
	}
	return nil
}

// MarkEmailVerified records the verification time and promotes the user from
// PENDING_VERIFICATION to VERIFIED. Users already past that status keep
// their current one, so re-verifying is harmless.
func (r *UserRepository) MarkEmailVerified(userID string, verifiedAt time.Time) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to mark email verified")

	query := `UPDATE users SET email_verified_at = $2, status = $3, updated_at = now()
	          WHERE id = $1 AND status = $4`
	_, err := r.DB.Exec(query, userID, verifiedAt, model.StatusVerified, model.StatusPendingVerification)
	if err != nil {
		log.WithError(err).Error("Failed to execute mark email verified query")
		return err
	}
	return nil
}

// UpdateLastLogin stamps a successful login time.
func (r *UserRepository) UpdateLastLogin(userID string, loginAt time.Time) error {
	query := `UPDATE users SET last_login_at = $2 WHERE id = $1`
	_, err := r.DB.Exec(query, userID, loginAt)
	if err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).Error("Failed to execute update last login query")
		return err
	}
	return nil
}

// SetProfileComplete updates the denormalized profile completeness flag that
// is baked into token claims.
func (r *UserRepository) SetProfileComplete(userID string, complete bool) error {
	query := `UPDATE users SET is_profile_complete = $2, updated_at = now() WHERE id = $1`
	_, err := r.DB.Exec(query, userID, complete)
	if err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).Error("Failed to execute set profile complete query")
		return err
	}
	return nil
}
