package service

import (
	"context"
	"encoding/json"
	"fmt"
	"go-jobportal-api/common"
	"go-jobportal-api/logger"
	"go-jobportal-api/model"
	"go-jobportal-api/repository"
	"time"
)

const profileCacheTTL = 10 * time.Minute

// ProfileService reads and updates candidate and employer profiles with a
// cache-aside strategy. Updates invalidate the cache and recompute the
// denormalized completeness flag on the user row.
type ProfileService struct {
	profileRepo repository.IProfileRepository
	userRepo    repository.IUserRepository
	cache       ICacheClient
}

func NewProfileService(profileRepo repository.IProfileRepository, userRepo repository.IUserRepository, cache ICacheClient) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		cache:       cache,
	}
}

func candidateCacheKey(userID string) string {
	return fmt.Sprintf("profile:candidate:%s", userID)
}

func employerCacheKey(userID string) string {
	return fmt.Sprintf("profile:employer:%s", userID)
}

// GetCandidateProfile returns a candidate's profile, serving from cache when
// possible.
func (s *ProfileService) GetCandidateProfile(userID string) (*model.CandidateProfile, error) {
	ctx := context.Background()
	cacheKey := candidateCacheKey(userID)

	cached, err := s.cache.Get(ctx, cacheKey).Result()
	if err == nil {
		var profile model.CandidateProfile
		if err := json.Unmarshal([]byte(cached), &profile); err == nil {
			return &profile, nil
		}
	}

	profile, err := s.profileRepo.GetCandidateProfile(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: candidate profile not found", common.ErrNotFound)
	}

	if data, err := json.Marshal(profile); err == nil {
		s.cache.Set(ctx, cacheKey, data, profileCacheTTL)
	}
	return profile, nil
}

// UpdateCandidateProfile updates the profile, invalidates its cache entry
// and refreshes the completeness flag baked into future tokens.
func (s *ProfileService) UpdateCandidateProfile(userID string, req model.CandidateProfileRequest) (*model.CandidateProfile, error) {
	existing, err := s.profileRepo.GetCandidateProfile(userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: candidate profile not found", common.ErrNotFound)
	}

	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.Headline = req.Headline
	existing.Summary = req.Summary
	existing.Location = req.Location
	existing.PhoneNumber = req.PhoneNumber

	if err := s.profileRepo.UpdateCandidateProfile(existing); err != nil {
		return nil, err
	}

	s.cache.Del(context.Background(), candidateCacheKey(userID))

	if err := s.userRepo.SetProfileComplete(userID, existing.Complete()); err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).Warn("Failed to update profile completeness flag")
	}

	return existing, nil
}

// GetEmployerProfile returns an employer's profile, serving from cache when
// possible.
func (s *ProfileService) GetEmployerProfile(userID string) (*model.EmployerProfile, error) {
	ctx := context.Background()
	cacheKey := employerCacheKey(userID)

	cached, err := s.cache.Get(ctx, cacheKey).Result()
	if err == nil {
		var profile model.EmployerProfile
		if err := json.Unmarshal([]byte(cached), &profile); err == nil {
			return &profile, nil
		}
	}

	profile, err := s.profileRepo.GetEmployerProfile(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: employer profile not found", common.ErrNotFound)
	}

	if data, err := json.Marshal(profile); err == nil {
		s.cache.Set(ctx, cacheKey, data, profileCacheTTL)
	}
	return profile, nil
}

// UpdateEmployerProfile updates the profile, invalidates its cache entry and
// refreshes the completeness flag.
func (s *ProfileService) UpdateEmployerProfile(userID string, req model.EmployerProfileRequest) (*model.EmployerProfile, error) {
	existing, err := s.profileRepo.GetEmployerProfile(userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: employer profile not found", common.ErrNotFound)
	}

	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.JobTitle = req.JobTitle

	if err := s.profileRepo.UpdateEmployerProfile(existing); err != nil {
		return nil, err
	}

	s.cache.Del(context.Background(), employerCacheKey(userID))

	if err := s.userRepo.SetProfileComplete(userID, existing.Complete()); err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).Warn("Failed to update profile completeness flag")
	}

	return existing, nil
}
