package handler

import (
	"context"
	"go-jobportal-api/common"
	"go-jobportal-api/model"
	"go-jobportal-api/service"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	ClaimsKey   contextKey = "claims"
	UserTypeKey contextKey = "userType"
)

// AuthMiddleware verifies the bearer access token and loads its claims into
// the request context. Verification is delegated to the token service so the
// algorithm and token type checks live in one place.
func AuthMiddleware(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil).Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil).Send(w)
				return
			}

			claims, err := tokens.VerifyAccessToken(headerParts[1])
			if err != nil {
				common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err).Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID())
			ctx = context.WithValue(ctx, ClaimsKey, claims)
			ctx = context.WithValue(ctx, UserTypeKey, claims.UserType)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUserType guards endpoints that only one side of the marketplace may
// call.
func RequireUserType(userType model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(UserTypeKey).(model.Role)
			if !ok || role != userType {
				common.NewAppError(http.StatusForbidden, "Access denied", nil).Send(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userIDFromContext(r *http.Request) (string, *common.AppError) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok || userID == "" {
		return "", common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}
	return userID, nil
}
