package router_test

import (
	"go-jobportal-api/logger"
	"go-jobportal-api/router"
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

func newTestRouter() http.Handler {
	tokens := service.NewTokenService("test-secret", 15*time.Minute, 7*24*time.Hour)
	// Handlers stay nil; these tests only exercise routing and middleware.
	return router.NewRouter(tokens, nil, nil, nil)
}

func TestRouter_HealthCheck(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"API is healthy and running"}`, rr.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter()

	protected := []struct {
		method string
		path   string
	}{
		{"GET", "/api/me"},
		{"POST", "/api/logout"},
		{"POST", "/api/logout-all"},
		{"GET", "/api/sessions"},
		{"POST", "/api/sessions/revoke"},
		{"PUT", "/api/password"},
		{"POST", "/api/verify-email"},
		{"GET", "/api/profile/candidate"},
		{"GET", "/api/profile/employer"},
	}

	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("GET", "/login", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
