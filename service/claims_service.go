package service

import (
	"database/sql"
	"fmt"
	"go-jobportal-api/common"
	"go-jobportal-api/logger"
	"go-jobportal-api/model"
	"go-jobportal-api/repository"

	"github.com/sirupsen/logrus"
)

// ClaimsService builds the claim set embedded in access tokens. Claims are
// always rebuilt from current database state at issuance time, never copied
// from an older token, so a status change or profile edit is reflected on the
// next rotation at the latest.
type ClaimsService struct {
	userRepo    repository.IUserRepository
	profileRepo repository.IProfileRepository
}

func NewClaimsService(userRepo repository.IUserRepository, profileRepo repository.IProfileRepository) *ClaimsService {
	return &ClaimsService{userRepo: userRepo, profileRepo: profileRepo}
}

// BuildClaims reads the user and profile outside any transaction and
// assembles claims.
func (s *ClaimsService) BuildClaims(userID string) (*model.AppClaims, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	return s.assemble(user, userID, s.profileRepo.GetCandidateProfile, s.profileRepo.GetEmployerProfile)
}

// BuildClaimsTx reads the user and profile inside the caller's transaction so
// the claims belong to the same snapshot as the session write. Registration
// relies on this: the profile row it just inserted is only visible through
// the same transaction.
func (s *ClaimsService) BuildClaimsTx(tx *sql.Tx, userID string) (*model.AppClaims, error) {
	user, err := s.userRepo.GetUserByIDTx(tx, userID)
	if err != nil {
		return nil, err
	}
	return s.assemble(user, userID,
		func(id string) (*model.CandidateProfile, error) { return s.profileRepo.GetCandidateProfileTx(tx, id) },
		func(id string) (*model.EmployerProfile, error) { return s.profileRepo.GetEmployerProfileTx(tx, id) },
	)
}

func (s *ClaimsService) assemble(
	user *model.User,
	userID string,
	getCandidate func(string) (*model.CandidateProfile, error),
	getEmployer func(string) (*model.EmployerProfile, error),
) (*model.AppClaims, error) {
	if user == nil {
		logger.Log.WithField("user_id", userID).Warn("Claims requested for unknown user")
		return nil, fmt.Errorf("%w: user not found", common.ErrAuthenticationFailed)
	}
	if user.Status == model.StatusSuspended || user.Status == model.StatusDeactivated {
		logger.Log.WithFields(logrus.Fields{
			"user_id": user.ID,
			"status":  user.Status,
		}).Warn("Claims requested for blocked user")
		return nil, fmt.Errorf("%w: account is %s", common.ErrAuthenticationFailed, user.Status)
	}

	claims := &model.AppClaims{
		Email:           user.Email,
		EmailVerified:   user.EmailVerified(),
		Status:          user.Status,
		UserType:        user.Role,
		ProfileComplete: user.IsProfileComplete,
	}
	claims.Subject = user.ID

	switch user.Role {
	case model.RoleCandidate:
		profile, err := getCandidate(user.ID)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			claims.FirstName = profile.FirstName
			claims.LastName = profile.LastName
		}
	case model.RoleEmployer:
		profile, err := getEmployer(user.ID)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			claims.FirstName = profile.FirstName
			claims.LastName = profile.LastName
			claims.OrganizationID = profile.OrganizationID
			claims.EmployerRole = profile.Role
		}
	}

	return claims, nil
}
