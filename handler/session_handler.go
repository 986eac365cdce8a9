package handler

import (
	"encoding/json"
	"go-jobportal-api/common"
	"go-jobportal-api/logger"
	"go-jobportal-api/model"
	"go-jobportal-api/service"
	"net/http"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Logout revokes the session behind the presented refresh token. Always
// succeeds from the client's point of view once the token parses; an already
// revoked session is left as is.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
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

	if err := h.sessionService.RevokeSessionByToken(r.Context(), refreshToken); err != nil {
		return common.FromServiceError(err)
	}

	clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// LogoutAll revokes every session of the authenticated user.
func (h *SessionHandler) LogoutAll(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFromContext(r)
	if appErr != nil {
		return appErr
	}

	count, err := h.sessionService.RevokeAllSessions(userID)
	if err != nil {
		return common.FromServiceError(err)
	}

	logger.Log.WithField("user_id", userID).Info("Logout-all request completed")

	clearRefreshCookie(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]int64{"revoked": count})
	return nil
}

// ListSessions returns the user's session history for the account page.
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFromContext(r)
	if appErr != nil {
		return appErr
	}

	sessions, err := h.sessionService.ListSessions(userID)
	if err != nil {
		return common.FromServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(sessions)
	return nil
}

// RevokeSession revokes one session by id, for the "sign out that device"
// button.
func (h *SessionHandler) RevokeSession(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFromContext(r)
	if appErr != nil {
		return appErr
	}

	var req model.RevokeSessionRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if err := h.sessionService.RevokeSession(userID, req.SessionID); err != nil {
		return common.FromServiceError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
