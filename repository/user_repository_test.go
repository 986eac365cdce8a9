package repository

import (
	"go-jobportal-api/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestUserRepository_MarkEmailVerifiedPromotesToVerified(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	now := time.Now()

	// Verification moves PENDING_VERIFICATION to VERIFIED; any later status
	// is left untouched by the conditional update.
	dbMock.ExpectExec("UPDATE users SET email_verified_at").
		WithArgs("user-1", now, string(model.StatusVerified), string(model.StatusPendingVerification)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.MarkEmailVerified("user-1", now)
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestUserRepository_GetUserByEmailMissing(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	dbMock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.GetUserByEmail("ghost@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
