package router

import (
	"go-jobportal-api/handler"
	"go-jobportal-api/model"
	"go-jobportal-api/service"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	tokens *service.TokenService,
	authHandler *handler.AuthHandler,
	sessionHandler *handler.SessionHandler,
	profileHandler *handler.ProfileHandler,
) http.Handler {
	mux := http.NewServeMux()

	// Public endpoints.
	mux.Handle("POST /register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /token/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Endpoints behind access token auth.
	authed := http.NewServeMux()
	authed.Handle("GET /api/me", handler.ErrorHandlingMiddleware(authHandler.Me))
	authed.Handle("PUT /api/password", handler.ErrorHandlingMiddleware(authHandler.ChangePassword))
	authed.Handle("POST /api/verify-email", handler.ErrorHandlingMiddleware(authHandler.VerifyEmail))
	authed.Handle("POST /api/logout", handler.ErrorHandlingMiddleware(sessionHandler.Logout))
	authed.Handle("POST /api/logout-all", handler.ErrorHandlingMiddleware(sessionHandler.LogoutAll))
	authed.Handle("GET /api/sessions", handler.ErrorHandlingMiddleware(sessionHandler.ListSessions))
	authed.Handle("POST /api/sessions/revoke", handler.ErrorHandlingMiddleware(sessionHandler.RevokeSession))

	candidateOnly := handler.RequireUserType(model.RoleCandidate)
	authed.Handle("GET /api/profile/candidate", candidateOnly(handler.ErrorHandlingMiddleware(profileHandler.GetCandidateProfile)))
	authed.Handle("PUT /api/profile/candidate", candidateOnly(handler.ErrorHandlingMiddleware(profileHandler.UpdateCandidateProfile)))

	employerOnly := handler.RequireUserType(model.RoleEmployer)
	authed.Handle("GET /api/profile/employer", employerOnly(handler.ErrorHandlingMiddleware(profileHandler.GetEmployerProfile)))
	authed.Handle("PUT /api/profile/employer", employerOnly(handler.ErrorHandlingMiddleware(profileHandler.UpdateEmployerProfile)))

	mux.Handle("/api/", handler.AuthMiddleware(tokens)(authed))

	return mux
}
