package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-jobportal-api/common"
	"go-jobportal-api/logger"
	"go-jobportal-api/model"
	"go-jobportal-api/repository"
	"time"

	"github.com/sirupsen/logrus"
)

const maxTokenIDRetries = 3

// TokenPair is what every successful login or refresh returns.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	ExpiresIn        int64     `json:"expires_in"`
	RefreshExpiresAt time.Time `json:"-"`
	SessionID        string    `json:"-"`
}

// AgentMetadata describes the client a session was opened from.
type AgentMetadata struct {
	Device    string
	IPAddress string
	UserAgent string
}

// SessionService owns the refresh session lifecycle: opening a session at
// login, rotating its token on refresh, and revoking it on logout. Every
// refresh token maps to exactly one session row keyed by the token's jti.
type SessionService struct {
	db          *sql.DB
	sessionRepo repository.ISessionRepository
	claims      *ClaimsService
	tokens      *TokenService
	now         func() time.Time
}

func NewSessionService(db *sql.DB, sessionRepo repository.ISessionRepository, claims *ClaimsService, tokens *TokenService) *SessionService {
	return &SessionService{
		db:          db,
		sessionRepo: sessionRepo,
		claims:      claims,
		tokens:      tokens,
		now:         time.Now,
	}
}

// Login opens a new session for the user and returns a fresh token pair.
func (s *SessionService) Login(ctx context.Context, userID string, meta AgentMetadata) (*TokenPair, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	pair, err := s.LoginTx(tx, userID, meta)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}
	return pair, nil
}

// LoginTx opens a session inside the caller's transaction. Registration uses
// this to create the user, profile and first session atomically.
func (s *SessionService) LoginTx(tx *sql.Tx, userID string, meta AgentMetadata) (*TokenPair, error) {
	claims, err := s.claims.BuildClaimsTx(tx, userID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(claims)
	if err != nil {
		return nil, err
	}

	session, refreshToken, err := s.createSession(tx, userID, meta)
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": session.ID,
	}).Info("Session opened")

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "bearer",
		ExpiresIn:        int64(s.tokens.AccessTTL().Seconds()),
		RefreshExpiresAt: session.ExpiresAt,
		SessionID:        session.ID,
	}, nil
}

// createSession issues a refresh token and inserts its session row. On the
// astronomically rare jti collision the unique index rejects the insert and
// we retry with a new token.
func (s *SessionService) createSession(tx *sql.Tx, userID string, meta AgentMetadata) (*model.Session, string, error) {
	for attempt := 0; attempt < maxTokenIDRetries; attempt++ {
		refreshToken, tokenID, expiresAt, err := s.tokens.IssueRefreshToken(userID)
		if err != nil {
			return nil, "", err
		}

		session := &model.Session{
			UserID:    userID,
			TokenID:   tokenID,
			Device:    meta.Device,
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
			ExpiresAt: expiresAt,
		}
		err = s.sessionRepo.CreateTx(tx, session)
		if err == nil {
			return session, refreshToken, nil
		}
		if !errors.Is(err, common.ErrConflict) {
			return nil, "", err
		}
		logger.Log.WithField("user_id", userID).Warn("Token id collision on session create, retrying")
	}
	return nil, "", fmt.Errorf("could not create session: %w", common.ErrConflict)
}

// Refresh rotates a refresh token: the presented token's session is located
// by jti, checked, and a replacement session is created before the old one is
// revoked inside the same transaction. If the process dies mid-rotation the
// old token simply stays valid; the client is never left with two dead
// tokens. Concurrent rotations of the same token serialize on the session
// row lock and every loser fails closed.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string, meta AgentMetadata) (*TokenPair, error) {
	userID, tokenID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		refreshAttempts.WithLabelValues("invalid_token").Inc()
		return nil, err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id":  userID,
		"token_id": tokenID,
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	session, err := s.sessionRepo.GetByTokenIDForUpdate(tx, tokenID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		refreshAttempts.WithLabelValues("unknown_session").Inc()
		log.Warn("Refresh token has no session")
		return nil, fmt.Errorf("%w: unknown session", common.ErrAuthenticationFailed)
	}
	if session.UserID != userID {
		refreshAttempts.WithLabelValues("subject_mismatch").Inc()
		log.Warn("Refresh token subject does not match session owner")
		return nil, fmt.Errorf("%w: subject mismatch", common.ErrAuthenticationFailed)
	}
	now := s.now()
	if session.RevokedAt != nil {
		refreshAttempts.WithLabelValues("revoked").Inc()
		log.Warn("Refresh attempted with revoked session")
		return nil, fmt.Errorf("%w: session revoked", common.ErrAuthenticationFailed)
	}
	if !session.ExpiresAt.After(now) {
		refreshAttempts.WithLabelValues("expired").Inc()
		log.Info("Refresh attempted with expired session")
		return nil, fmt.Errorf("%w: session expired", common.ErrAuthenticationFailed)
	}

	pair, err := s.LoginTx(tx, userID, meta)
	if err != nil {
		return nil, err
	}

	revoked, err := s.sessionRepo.RevokeTx(tx, session.ID, now)
	if err != nil {
		return nil, err
	}
	if !revoked {
		// Someone else revoked the row between our lock and this update.
		// Fail closed rather than leave two live sessions for one token.
		refreshAttempts.WithLabelValues("lost_race").Inc()
		log.Warn("Lost revocation race during refresh")
		return nil, fmt.Errorf("%w: session already rotated", common.ErrAuthenticationFailed)
	}

	if err := s.sessionRepo.UpdateLastUsedTx(tx, session.ID, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	refreshAttempts.WithLabelValues("success").Inc()
	log.WithField("new_session_id", pair.SessionID).Info("Refresh token rotated")
	return pair, nil
}

// RevokeSession revokes one session owned by the given user. Revoking an
// already revoked session is a no-op success so logout retries stay quiet.
func (s *SessionService) RevokeSession(userID, sessionID string) error {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("%w: session not found", common.ErrNotFound)
	}
	if session.UserID != userID {
		// Do not leak that the session exists.
		return fmt.Errorf("%w: session not found", common.ErrNotFound)
	}

	if _, err := s.sessionRepo.Revoke(sessionID, s.now()); err != nil {
		return err
	}
	sessionRevocations.WithLabelValues("single").Inc()
	logger.Log.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": sessionID,
	}).Info("Session revoked")
	return nil
}

// RevokeSessionByToken revokes the session behind a refresh token, the
// normal logout path. An unknown or already revoked token is a no-op success
// since the desired state is already reached.
func (s *SessionService) RevokeSessionByToken(ctx context.Context, refreshToken string) error {
	userID, tokenID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	session, err := s.sessionRepo.GetByTokenIDForUpdate(tx, tokenID)
	if err != nil {
		return err
	}
	if session == nil || session.UserID != userID {
		return nil
	}

	if _, err := s.sessionRepo.RevokeTx(tx, session.ID, s.now()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	sessionRevocations.WithLabelValues("single").Inc()
	logger.Log.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": session.ID,
	}).Info("Session revoked via logout")
	return nil
}

// RevokeAllSessions revokes every active session of a user. Used by the
// logout-everywhere endpoint and forced after a password change.
func (s *SessionService) RevokeAllSessions(userID string) (int64, error) {
	count, err := s.sessionRepo.RevokeAllByUserID(userID, s.now())
	if err != nil {
		return 0, err
	}
	sessionRevocations.WithLabelValues("all").Inc()
	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"count":   count,
	}).Info("All sessions revoked")
	return count, nil
}

// ListSessions returns the user's sessions, newest first.
func (s *SessionService) ListSessions(userID string) ([]*model.Session, error) {
	return s.sessionRepo.ListByUserID(userID)
}
