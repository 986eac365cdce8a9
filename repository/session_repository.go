package repository

import (
	"database/sql"
	"go-jobportal-api/common"
	"go-jobportal-api/logger"
	"go-jobportal-api/model"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ISessionRepository defines the contract for refresh session database operations.
// Sessions are never deleted while a user exists; revocation is a logical flag
// so the audit history of past sessions survives.
type ISessionRepository interface {
	CreateTx(tx *sql.Tx, session *model.Session) error
	GetByTokenIDForUpdate(tx *sql.Tx, tokenID string) (*model.Session, error)
	GetByID(sessionID string) (*model.Session, error)
	Revoke(sessionID string, revokedAt time.Time) (bool, error)
	RevokeTx(tx *sql.Tx, sessionID string, revokedAt time.Time) (bool, error)
	RevokeAllByUserID(userID string, revokedAt time.Time) (int64, error)
	UpdateLastUsedTx(tx *sql.Tx, sessionID string, usedAt time.Time) error
	ListByUserID(userID string) ([]*model.Session, error)
}

// SessionRepository implements ISessionRepository.
type SessionRepository struct {
	DB *sql.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

const sessionColumns = `id, user_id, token_id, device, ip_address, user_agent, created_at, expires_at, revoked_at, last_used_at`

func scanSession(row *sql.Row) (*model.Session, error) {
	s := &model.Session{}
	err := row.Scan(&s.ID, &s.UserID, &s.TokenID, &s.Device, &s.IPAddress, &s.UserAgent,
		&s.CreatedAt, &s.ExpiresAt, &s.RevokedAt, &s.LastUsedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateTx inserts a new session record inside the caller's transaction.
// A duplicate token_id surfaces as common.ErrConflict so callers can retry
// with a freshly generated token id.
func (r *SessionRepository) CreateTx(tx *sql.Tx, session *model.Session) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    session.UserID,
		"expires_at": session.ExpiresAt,
	})
	log.Info("Executing query to create a new session")

	query := `INSERT INTO user_sessions (user_id, token_id, device, ip_address, user_agent, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := tx.QueryRow(query, session.UserID, session.TokenID, session.Device,
		session.IPAddress, session.UserAgent, session.ExpiresAt).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			log.Warn("Duplicate token id on session insert")
			return common.ErrConflict
		}
		log.WithError(err).Error("Failed to execute create session query")
		return err
	}
	return nil
}

// GetByTokenIDForUpdate retrieves the session for a refresh token id and
// locks its row for the duration of the transaction. Concurrent refreshes of
// the same token serialize on this lock. Returns (nil, nil) when no session
// exists for the token id.
func (r *SessionRepository) GetByTokenIDForUpdate(tx *sql.Tx, tokenID string) (*model.Session, error) {
	log := logger.Log.WithField("token_id", tokenID)
	log.Info("Executing query to get session by token id for update")

	query := `SELECT ` + sessionColumns + ` FROM user_sessions WHERE token_id = $1 FOR UPDATE`
	session, err := scanSession(tx.QueryRow(query, tokenID))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("No session found for token id")
			return nil, nil
		}
		log.WithError(err).Error("Failed to execute get session by token id query")
		return nil, err
	}
	return session, nil
}

// GetByID retrieves a session by its primary key. Returns (nil, nil) when the
// session does not exist.
func (r *SessionRepository) GetByID(sessionID string) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM user_sessions WHERE id = $1`
	session, err := scanSession(r.DB.QueryRow(query, sessionID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Log.WithField("session_id", sessionID).WithError(err).Error("Failed to execute get session by id query")
		return nil, err
	}
	return session, nil
}

// Revoke marks a session revoked if it is still active. The conditional
// update guarantees only one caller ever observes the transition; the
// returned bool reports whether this call performed it.
func (r *SessionRepository) Revoke(sessionID string, revokedAt time.Time) (bool, error) {
	return revoke(r.DB, sessionID, revokedAt)
}

// RevokeTx is Revoke inside the caller's transaction.
func (r *SessionRepository) RevokeTx(tx *sql.Tx, sessionID string, revokedAt time.Time) (bool, error) {
	return revoke(tx, sessionID, revokedAt)
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func revoke(db execer, sessionID string, revokedAt time.Time) (bool, error) {
	log := logger.Log.WithField("session_id", sessionID)
	log.Info("Executing query to revoke session")

	query := `UPDATE user_sessions SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`
	res, err := db.Exec(query, sessionID, revokedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute revoke session query")
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// RevokeAllByUserID revokes every active session of a user and returns how
// many sessions were affected.
func (r *SessionRepository) RevokeAllByUserID(userID string, revokedAt time.Time) (int64, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to revoke all sessions for a user")

	query := `UPDATE user_sessions SET revoked_at = $2 WHERE user_id = $1 AND revoked_at IS NULL`
	res, err := r.DB.Exec(query, userID, revokedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute revoke all sessions query")
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateLastUsedTx stamps the time a session's refresh token was last rotated.
func (r *SessionRepository) UpdateLastUsedTx(tx *sql.Tx, sessionID string, usedAt time.Time) error {
	query := `UPDATE user_sessions SET last_used_at = $2 WHERE id = $1`
	_, err := tx.Exec(query, sessionID, usedAt)
	if err != nil {
		logger.Log.WithField("session_id", sessionID).WithError(err).Error("Failed to execute update last used query")
		return err
	}
	return nil
}

// ListByUserID returns a user's sessions, newest first, including revoked and
// expired ones so the account page can show full history.
func (r *SessionRepository) ListByUserID(userID string) ([]*model.Session, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to list sessions for a user")

	query := `SELECT ` + sessionColumns + ` FROM user_sessions WHERE user_id = $1 ORDER BY created_at DESC LIMIT 50`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute list sessions query")
		return nil, err
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		s := &model.Session{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.TokenID, &s.Device, &s.IPAddress, &s.UserAgent,
			&s.CreatedAt, &s.ExpiresAt, &s.RevokedAt, &s.LastUsedAt); err != nil {
			log.WithError(err).Error("Failed to scan session row")
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
