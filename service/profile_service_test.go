package service

import (
	"context"
	"go-jobportal-api/common"
	"go-jobportal-api/model"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fakeCache is an in-memory ICacheClient so cache behavior is testable
// without a Redis instance.
type fakeCache struct {
	store map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := f.store[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.store[key] = string(v)
	case string:
		f.store[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := f.store[key]; ok {
			delete(f.store, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestProfileService_GetCandidateProfileCacheAside(t *testing.T) {
	profileRepo := new(MockProfileRepository)
	userRepo := new(MockUserRepository)
	cache := newFakeCache()
	svc := NewProfileService(profileRepo, userRepo, cache)

	stored := &model.CandidateProfile{
		UserID: "user-1", FirstName: "Jane", LastName: "Doe",
	}
	// The repository is hit exactly once; the second read is served from cache.
	profileRepo.On("GetCandidateProfile", "user-1").Return(stored, nil).Once()

	first, err := svc.GetCandidateProfile("user-1")
	assert.NoError(t, err)
	assert.Equal(t, "Jane", first.FirstName)

	second, err := svc.GetCandidateProfile("user-1")
	assert.NoError(t, err)
	assert.Equal(t, "Jane", second.FirstName)

	profileRepo.AssertExpectations(t)
}

func TestProfileService_GetCandidateProfileNotFound(t *testing.T) {
	profileRepo := new(MockProfileRepository)
	userRepo := new(MockUserRepository)
	svc := NewProfileService(profileRepo, userRepo, newFakeCache())

	profileRepo.On("GetCandidateProfile", "ghost").Return(nil, nil).Once()

	_, err := svc.GetCandidateProfile("ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProfileService_UpdateCandidateProfileInvalidatesCache(t *testing.T) {
	profileRepo := new(MockProfileRepository)
	userRepo := new(MockUserRepository)
	cache := newFakeCache()
	svc := NewProfileService(profileRepo, userRepo, cache)

	stored := &model.CandidateProfile{
		UserID: "user-1", FirstName: "Jane", LastName: "Doe",
	}
	profileRepo.On("GetCandidateProfile", "user-1").Return(stored, nil).Twice()

	// Warm the cache.
	_, err := svc.GetCandidateProfile("user-1")
	assert.NoError(t, err)
	assert.Contains(t, cache.store, candidateCacheKey("user-1"))

	profileRepo.On("UpdateCandidateProfile", mock.AnythingOfType("*model.CandidateProfile")).
		Return(nil).Once()
	userRepo.On("SetProfileComplete", "user-1", true).Return(nil).Once()

	updated, err := svc.UpdateCandidateProfile("user-1", model.CandidateProfileRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Headline:  "Backend Engineer",
		Location:  "Berlin",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Backend Engineer", updated.Headline)
	assert.NotContains(t, cache.store, candidateCacheKey("user-1"))

	userRepo.AssertExpectations(t)
}

func TestProfileService_UpdateIncompleteProfileClearsFlag(t *testing.T) {
	profileRepo := new(MockProfileRepository)
	userRepo := new(MockUserRepository)
	svc := NewProfileService(profileRepo, userRepo, newFakeCache())

	stored := &model.CandidateProfile{
		UserID: "user-1", FirstName: "Jane", LastName: "Doe",
		Headline: "Backend Engineer", Location: "Berlin",
	}
	profileRepo.On("GetCandidateProfile", "user-1").Return(stored, nil).Once()
	profileRepo.On("UpdateCandidateProfile", mock.AnythingOfType("*model.CandidateProfile")).
		Return(nil).Once()
	// Clearing the headline makes the profile incomplete again.
	userRepo.On("SetProfileComplete", "user-1", false).Return(nil).Once()

	_, err := svc.UpdateCandidateProfile("user-1", model.CandidateProfileRequest{
		FirstName: "Jane",
		LastName:  "Doe",
	})
	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestProfileService_EmployerProfileRoundTrip(t *testing.T) {
	profileRepo := new(MockProfileRepository)
	userRepo := new(MockUserRepository)
	cache := newFakeCache()
	svc := NewProfileService(profileRepo, userRepo, cache)

	stored := &model.EmployerProfile{
		UserID:         "user-2",
		OrganizationID: "org-1",
		FirstName:      "Hans",
		LastName:       "Recruiter",
	}
	profileRepo.On("GetEmployerProfile", "user-2").Return(stored, nil).Twice()
	profileRepo.On("UpdateEmployerProfile", mock.AnythingOfType("*model.EmployerProfile")).
		Return(nil).Once()
	userRepo.On("SetProfileComplete", "user-2", true).Return(nil).Once()

	got, err := svc.GetEmployerProfile("user-2")
	assert.NoError(t, err)
	assert.Equal(t, "org-1", got.OrganizationID)

	updated, err := svc.UpdateEmployerProfile("user-2", model.EmployerProfileRequest{
		FirstName: "Hans",
		LastName:  "Recruiter",
		JobTitle:  "Head of Talent",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Head of Talent", updated.JobTitle)
	assert.NotContains(t, cache.store, employerCacheKey("user-2"))
}
