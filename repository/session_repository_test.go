package repository

import (
	"go-jobportal-api/common"
	"go-jobportal-api/logger"
	"go-jobportal-api/model"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestSessionRepository_CreateTxMapsUniqueViolation(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepository(db)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery("INSERT INTO user_sessions").
		WillReturnError(&pq.Error{Code: "23505"})

	tx, err := db.Begin()
	assert.NoError(t, err)

	session := &model.Session{
		UserID:    "user-1",
		TokenID:   "token-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	err = repo.CreateTx(tx, session)
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestSessionRepository_RevokeReportsWinner(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepository(db)
	now := time.Now()

	t.Run("active row is revoked", func(t *testing.T) {
		dbMock.ExpectExec("UPDATE user_sessions SET revoked_at").
			WithArgs("session-1", now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		revoked, err := repo.Revoke("session-1", now)
		assert.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("already revoked row is untouched", func(t *testing.T) {
		dbMock.ExpectExec("UPDATE user_sessions SET revoked_at").
			WithArgs("session-1", now).
			WillReturnResult(sqlmock.NewResult(0, 0))

		revoked, err := repo.Revoke("session-1", now)
		assert.NoError(t, err)
		assert.False(t, revoked)
	})

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestSessionRepository_GetByTokenIDForUpdate(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepository(db)
	now := time.Now()

	columns := []string{"id", "user_id", "token_id", "device", "ip_address", "user_agent",
		"created_at", "expires_at", "revoked_at", "last_used_at"}

	t.Run("found", func(t *testing.T) {
		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT (.+) FROM user_sessions WHERE token_id = \\$1 FOR UPDATE").
			WithArgs("token-1").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("session-1", "user-1", "token-1", "laptop", "10.0.0.1", "go-test",
					now, now.Add(time.Hour), nil, nil))

		tx, err := db.Begin()
		assert.NoError(t, err)

		session, err := repo.GetByTokenIDForUpdate(tx, "token-1")
		assert.NoError(t, err)
		assert.Equal(t, "session-1", session.ID)
		assert.Nil(t, session.RevokedAt)
		assert.True(t, session.Active(now))
	})

	t.Run("missing returns nil without error", func(t *testing.T) {
		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT (.+) FROM user_sessions WHERE token_id = \\$1 FOR UPDATE").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows(columns))

		tx, err := db.Begin()
		assert.NoError(t, err)

		session, err := repo.GetByTokenIDForUpdate(tx, "ghost")
		assert.NoError(t, err)
		assert.Nil(t, session)
	})

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestSessionRepository_ListByUserID(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepository(db)
	now := time.Now()
	revokedAt := now.Add(-time.Hour)

	columns := []string{"id", "user_id", "token_id", "device", "ip_address", "user_agent",
		"created_at", "expires_at", "revoked_at", "last_used_at"}

	dbMock.ExpectQuery("SELECT (.+) FROM user_sessions WHERE user_id = \\$1 ORDER BY created_at DESC").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("session-2", "user-1", "token-2", "", "", "", now, now.Add(time.Hour), nil, nil).
			AddRow("session-1", "user-1", "token-1", "", "", "", now.Add(-2*time.Hour), now.Add(time.Hour), revokedAt, nil))

	sessions, err := repo.ListByUserID("user-1")
	assert.NoError(t, err)
	assert.Len(t, sessions, 2)
	assert.True(t, sessions[0].Active(now))
	assert.False(t, sessions[1].Active(now))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
