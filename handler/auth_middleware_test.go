package handler

import (
	"go-jobportal-api/logger"
	"go-jobportal-api/model"
	"go-jobportal-api/service"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func testTokenService() *service.TokenService {
	return service.NewTokenService("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func issueTestToken(t *testing.T, ts *service.TokenService, userID string, role model.Role) string {
	t.Helper()
	claims := &model.AppClaims{
		Email:    "jane@example.com",
		Status:   model.StatusActive,
		UserType: role,
	}
	claims.Subject = userID
	token, err := ts.IssueAccessToken(claims)
	assert.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	tokens := testTokenService()

	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID, _ = r.Context().Value(UserIDKey).(string)
		w.WriteHeader(http.StatusOK)
	})
	protected := AuthMiddleware(tokens)(next)

	t.Run("valid token passes claims through", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+issueTestToken(t, tokens, "user-1", model.RoleCandidate))
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-1", seenUserID)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/me", nil)
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/me", nil)
		req.Header.Set("Authorization", "Token abc")
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := service.NewTokenService("other-secret", time.Minute, time.Hour)
		req := httptest.NewRequest("GET", "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+issueTestToken(t, other, "user-1", model.RoleCandidate))
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("refresh token rejected on access endpoints", func(t *testing.T) {
		refreshToken, _, _, err := tokens.IssueRefreshToken("user-1")
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+refreshToken)
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequireUserType(t *testing.T) {
	tokens := testTokenService()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	candidateOnly := AuthMiddleware(tokens)(RequireUserType(model.RoleCandidate)(next))

	t.Run("matching type passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/profile/candidate", nil)
		req.Header.Set("Authorization", "Bearer "+issueTestToken(t, tokens, "user-1", model.RoleCandidate))
		rr := httptest.NewRecorder()

		candidateOnly.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("other type is forbidden", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/profile/candidate", nil)
		req.Header.Set("Authorization", "Bearer "+issueTestToken(t, tokens, "user-2", model.RoleEmployer))
		rr := httptest.NewRecorder()

		candidateOnly.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
