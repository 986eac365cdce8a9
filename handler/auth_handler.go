package handler

import (
	"encoding/json"
	"go-jobportal-api/common"
	"go-jobportal-api/logger"
	"go-jobportal-api/model"
	"go-jobportal-api/service"
	"net/http"
	"time"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	authService    *service.AuthService
	sessionService *service.SessionService
}

func NewAuthHandler(authService *service.AuthService, sessionService *service.SessionService) *AuthHandler {
	return &AuthHandler{authService: authService, sessionService: sessionService}
}

func agentMetadata(r *http.Request) service.AgentMetadata {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
	}
	return service.AgentMetadata{
		Device:    r.Header.Get("X-Device-Name"),
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}

// setRefreshCookie stores the refresh token in an HttpOnly cookie so browser
// clients never expose it to scripts. The path must cover the logout
// endpoints as well as the refresh endpoint, since logout identifies the
// session by the refresh token it is revoking.
func setRefreshCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// Register creates a new account and logs the user straight in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	logger.Log.WithField("email", req.Email).Info("Register request received")

	pair, user, err := h.authService.Register(r.Context(), req, agentMetadata(r))
	if err != nil {
		return common.FromServiceError(err)
	}

	setRefreshCookie(w, pair.RefreshToken, pair.RefreshExpiresAt)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":   user,
		"tokens": pair,
	})
	return nil
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	logger.Log.WithField("email", req.Email).Info("Login request received")

	pair, err := h.authService.Login(r.Context(), req, agentMetadata(r))
	if err != nil {
		return common.FromServiceError(err)
	}

	setRefreshCookie(w, pair.RefreshToken, pair.RefreshExpiresAt)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Refresh rotates a refresh token. The token is read from the body for API
// clients and falls back to the cookie for browsers.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	refreshToken := req.RefreshToken
	if refreshToken == "" {
		if cookie, err := r.Cookie(refreshCookieName); err == nil {
			refreshToken = cookie.Value
		}
	}
	if refreshToken == "" {
		return common.NewAppError(http.StatusUnauthorized, "Refresh token is required", nil)
	}

	pair, err := h.sessionService.Refresh(r.Context(), refreshToken, agentMetadata(r))
	if err != nil {
		clearRefreshCookie(w)
		return common.FromServiceError(err)
	}

	setRefreshCookie(w, pair.RefreshToken, pair.RefreshExpiresAt)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Me returns the authenticated user's account summary.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFromContext(r)
	if appErr != nil {
		return appErr
	}

	summary, err := h.authService.GetUserSummary(userID)
	if err != nil {
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
	return nil
}

// ChangePassword updates the password and force-expires every session.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFromContext(r)
	if appErr != nil {
		return appErr
	}

	var req model.ChangePasswordRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if err := h.authService.ChangePassword(userID, req); err != nil {
		return common.FromServiceError(err)
	}

	clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// VerifyEmail marks the account's email address as verified.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFromContext(r)
	if appErr != nil {
		return appErr
	}

	if err := h.authService.VerifyEmail(userID); err != nil {
		return common.FromServiceError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
