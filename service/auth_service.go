package service

import (
	"context"
	"database/sql"
	"fmt"
	"go-jobportal-api/common"
	"go-jobportal-api/logger"
	"go-jobportal-api/model"
	"go-jobportal-api/repository"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, credential verification and the account
// level operations that interact with sessions.
type AuthService struct {
	db          *sql.DB
	userRepo    repository.IUserRepository
	profileRepo repository.IProfileRepository
	sessions    *SessionService
	bcryptCost  int
	now         func() time.Time
}

func NewAuthService(db *sql.DB, userRepo repository.IUserRepository, profileRepo repository.IProfileRepository, sessions *SessionService, bcryptCost int) *AuthService {
	return &AuthService{
		db:          db,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		sessions:    sessions,
		bcryptCost:  bcryptCost,
		now:         time.Now,
	}
}

// HashPassword hashes a password with the configured bcrypt cost. Costs
// outside bcrypt's valid range are clamped so a bad config cannot silently
// disable hashing.
func (s *AuthService) HashPassword(password string) (string, error) {
	cost := s.bcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a plaintext password against a stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Register creates a user, their role profile and, for employers, their
// organization in one transaction, then opens the first session so the
// client is logged in immediately.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest, meta AgentMetadata) (*TokenPair, *model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	log := logger.Log.WithFields(logrus.Fields{
		"email":     email,
		"user_type": req.UserType,
	})
	log.Info("Starting user registration")

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         req.UserType,
		Status:       model.StatusPendingVerification,
	}
	if err := s.userRepo.CreateUserTx(tx, user); err != nil {
		return nil, nil, err
	}

	switch req.UserType {
	case model.RoleCandidate:
		profile := &model.CandidateProfile{
			UserID:    user.ID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}
		if err := s.profileRepo.CreateCandidateProfileTx(tx, profile); err != nil {
			return nil, nil, err
		}
	case model.RoleEmployer:
		org := &model.Organization{Name: req.OrganizationName}
		if err := s.profileRepo.CreateOrganizationTx(tx, org); err != nil {
			return nil, nil, err
		}
		profile := &model.EmployerProfile{
			UserID:         user.ID,
			OrganizationID: org.ID,
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Role:           model.EmployerRoleAdmin,
		}
		if err := s.profileRepo.CreateEmployerProfileTx(tx, profile); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("%w: unsupported user type", common.ErrValidation)
	}

	pair, err := s.sessions.LoginTx(tx, user.ID, meta)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User registered successfully")
	return pair, user, nil
}

// Login verifies credentials and opens a new session. Unknown email and
// wrong password are indistinguishable to the caller; both cost a bcrypt
// comparison so timing does not reveal which one failed.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, meta AgentMetadata) (*TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	log := logger.Log.WithField("email", email)

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		CheckPasswordHash(req.Password, dummyHash)
		loginAttempts.WithLabelValues("unknown_email").Inc()
		log.Info("Login attempt for unknown email")
		return nil, fmt.Errorf("%w: invalid email or password", common.ErrAuthenticationFailed)
	}
	if !CheckPasswordHash(req.Password, user.PasswordHash) {
		loginAttempts.WithLabelValues("bad_password").Inc()
		log.WithField("user_id", user.ID).Info("Login attempt with wrong password")
		return nil, fmt.Errorf("%w: invalid email or password", common.ErrAuthenticationFailed)
	}

	pair, err := s.sessions.Login(ctx, user.ID, meta)
	if err != nil {
		loginAttempts.WithLabelValues("blocked").Inc()
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(user.ID, s.now()); err != nil {
		// The session is already open; a failed stamp is not worth failing the login.
		log.WithError(err).Warn("Failed to update last login time")
	}

	loginAttempts.WithLabelValues("success").Inc()
	log.WithField("user_id", user.ID).Info("User logged in successfully")
	return pair, nil
}

// dummyHash is compared against when the email is unknown so both failure
// paths take a bcrypt comparison.
var dummyHash = func() string {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)
	return string(h)
}()

// ChangePassword verifies the current password, stores the new hash and
// revokes every session. The client must log in again with the new password.
func (s *AuthService) ChangePassword(userID string, req model.ChangePasswordRequest) error {
	log := logger.Log.WithField("user_id", userID)

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user not found", common.ErrNotFound)
	}
	if !CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		log.Info("Password change attempt with wrong current password")
		return fmt.Errorf("%w: current password is incorrect", common.ErrAuthenticationFailed)
	}

	hash, err := s.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(userID, hash); err != nil {
		return err
	}

	if _, err := s.sessions.RevokeAllSessions(userID); err != nil {
		// The password already changed; surface the error so the caller
		// knows old sessions may still be live.
		return fmt.Errorf("password changed but session revocation failed: %w", err)
	}

	log.Info("Password changed, all sessions revoked")
	return nil
}

// VerifyEmail marks the user's email verified. Idempotent; verifying twice
// is harmless.
func (s *AuthService) VerifyEmail(userID string) error {
	return s.userRepo.MarkEmailVerified(userID, s.now())
}

// GetUserSummary assembles the flattened account view for /api/me.
func (s *AuthService) GetUserSummary(userID string) (*model.UserSummary, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", common.ErrNotFound)
	}

	summary := &model.UserSummary{
		ID:                user.ID,
		Email:             user.Email,
		EmailVerified:     user.EmailVerified(),
		UserType:          user.Role,
		Status:            user.Status,
		IsProfileComplete: user.IsProfileComplete,
	}

	switch user.Role {
	case model.RoleCandidate:
		profile, err := s.profileRepo.GetCandidateProfile(user.ID)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			summary.FirstName = profile.FirstName
			summary.LastName = profile.LastName
		}
	case model.RoleEmployer:
		profile, err := s.profileRepo.GetEmployerProfile(user.ID)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			summary.FirstName = profile.FirstName
			summary.LastName = profile.LastName
			org, err := s.profileRepo.GetOrganization(profile.OrganizationID)
			if err != nil {
				return nil, err
			}
			if org != nil {
				summary.OrganizationName = org.Name
			}
		}
	}

	return summary, nil
}
