package service

import (
	"fmt"
	"go-jobportal-api/common"
	"go-jobportal-api/logger"
	"go-jobportal-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService signs and verifies the two token kinds the portal issues.
// Access tokens are short-lived and carry the full claim set; refresh tokens
// are long-lived, carry a jti that keys the session row, and are only ever
// accepted by the rotation endpoint.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// RefreshTTL exposes the configured refresh token lifetime so sessions can be
// stored with a matching expiry.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// AccessTTL exposes the configured access token lifetime for expires_in
// fields in responses.
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// IssueAccessToken signs a short-lived access token from the given claims.
func (s *TokenService) IssueAccessToken(claims *model.AppClaims) (string, error) {
	now := s.now()
	claims.TokenType = model.TokenTypeAccess
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.accessTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", claims.Subject).Error("Failed to sign access token")
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// IssueRefreshToken signs a refresh token for the user and returns the token
// string, its jti and its expiry. The jti is the only claim the rotation
// endpoint needs beyond the subject; everything else is re-read from the
// database at rotation time.
func (s *TokenService) IssueRefreshToken(userID string) (tokenString, tokenID string, expiresAt time.Time, err error) {
	now := s.now()
	tokenID = uuid.NewString()
	expiresAt = now.Add(s.refreshTTL)

	claims := &refreshClaims{
		TokenType: model.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString(s.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign refresh token")
		return "", "", time.Time{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return tokenString, tokenID, expiresAt, nil
}

type refreshClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// VerifyAccessToken parses and validates an access token. Any failure,
// whether a bad signature, expiry, wrong algorithm or wrong token type,
// collapses into common.ErrAuthenticationFailed.
func (s *TokenService) VerifyAccessToken(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != model.TokenTypeAccess {
		logger.Log.WithField("type", claims.TokenType).Warn("Token presented as access token has wrong type")
		return nil, fmt.Errorf("%w: wrong token type", common.ErrAuthenticationFailed)
	}
	return claims, nil
}

// VerifyRefreshToken parses and validates a refresh token and returns the
// subject and jti. This is a pure signature and expiry check; the session
// store decides whether the token is still honored.
func (s *TokenService) VerifyRefreshToken(tokenString string) (userID, tokenID string, err error) {
	claims := &refreshClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return "", "", err
	}
	if claims.TokenType != model.TokenTypeRefresh {
		logger.Log.WithField("type", claims.TokenType).Warn("Token presented as refresh token has wrong type")
		return "", "", fmt.Errorf("%w: wrong token type", common.ErrAuthenticationFailed)
	}
	if claims.ID == "" {
		return "", "", fmt.Errorf("%w: missing token id", common.ErrAuthenticationFailed)
	}
	return claims.Subject, claims.ID, nil
}

func (s *TokenService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrAuthenticationFailed, err)
	}
	if !token.Valid {
		return fmt.Errorf("%w: invalid token", common.ErrAuthenticationFailed)
	}
	return nil
}
