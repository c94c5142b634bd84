package cron

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndUpdateExpiredInvites(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE invites").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, CheckAndUpdateExpiredInvites(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAndUpdateExpiredInvitesNothingToSweep(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE invites").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, CheckAndUpdateExpiredInvites(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAndUpdateExpiredInvitesRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE invites").
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	assert.Error(t, CheckAndUpdateExpiredInvites(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
