package invites

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusvidal21/CoFi/internal/models"
)

const inviteByTokenQuery = "SELECT id, token, sender_id, sender_email, receiver_id, receiver_email, status, expires_at, created_at"

func newInviteDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, mock
}

func inviteRow(id int, token, status, expiresAt string) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "token", "sender_id", "sender_email", "receiver_id", "receiver_email", "status", "expires_at", "created_at"}).
		AddRow(id, token, 1, "ana@example.com", 2, "bruno@example.com", status, expiresAt, "2026-01-01 10:00:00")
}

func TestLoadPendingInviteLazilyExpiresPastDeadline(t *testing.T) {
	db, mock := newInviteDB(t)

	pastExpiry := time.Now().UTC().Add(-time.Hour).Format(timeLayout)
	mock.ExpectQuery(inviteByTokenQuery).
		WithArgs("tok-past").
		WillReturnRows(inviteRow(5, "tok-past", models.InviteStatusPending, pastExpiry))

	// The stored PENDING status must be flipped to EXPIRED on read.
	mock.ExpectExec("UPDATE invites SET status = \\?").
		WithArgs(models.InviteStatusExpired, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	inv, code, msg := loadPendingInvite(context.Background(), db, "tok-past")
	assert.Nil(t, inv)
	assert.Equal(t, http.StatusGone, code)
	assert.Equal(t, "this invite has expired", msg)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadPendingInviteExpiredRegardlessOfStoredStatus(t *testing.T) {
	db, mock := newInviteDB(t)

	// Past deadline wins even over a non-PENDING stored status, and the
	// stored row is left alone since it is already terminal.
	pastExpiry := time.Now().UTC().Add(-48 * time.Hour).Format(timeLayout)
	mock.ExpectQuery(inviteByTokenQuery).
		WithArgs("tok-old").
		WillReturnRows(inviteRow(6, "tok-old", models.InviteStatusAccepted, pastExpiry))

	inv, code, _ := loadPendingInvite(context.Background(), db, "tok-old")
	assert.Nil(t, inv)
	assert.Equal(t, http.StatusGone, code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadPendingInviteUnknownToken(t *testing.T) {
	db, mock := newInviteDB(t)

	mock.ExpectQuery(inviteByTokenQuery).
		WithArgs("tok-missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "sender_id", "sender_email", "receiver_id", "receiver_email", "status", "expires_at", "created_at"}))

	inv, code, msg := loadPendingInvite(context.Background(), db, "tok-missing")
	assert.Nil(t, inv)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "invite not found", msg)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadPendingInviteAlreadyResponded(t *testing.T) {
	db, mock := newInviteDB(t)

	futureExpiry := time.Now().UTC().Add(24 * time.Hour).Format(timeLayout)
	mock.ExpectQuery(inviteByTokenQuery).
		WithArgs("tok-done").
		WillReturnRows(inviteRow(7, "tok-done", models.InviteStatusRejected, futureExpiry))

	inv, code, _ := loadPendingInvite(context.Background(), db, "tok-done")
	assert.Nil(t, inv)
	assert.Equal(t, http.StatusGone, code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadPendingInviteStillPending(t *testing.T) {
	db, mock := newInviteDB(t)

	futureExpiry := time.Now().UTC().Add(24 * time.Hour).Format(timeLayout)
	mock.ExpectQuery(inviteByTokenQuery).
		WithArgs("tok-live").
		WillReturnRows(inviteRow(8, "tok-live", models.InviteStatusPending, futureExpiry))

	inv, code, msg := loadPendingInvite(context.Background(), db, "tok-live")
	require.NotNil(t, inv)
	assert.Equal(t, 8, inv.ID)
	assert.Equal(t, "tok-live", inv.Token)
	assert.Equal(t, models.InviteStatusPending, inv.Status)
	assert.Equal(t, 0, code)
	assert.Empty(t, msg)

	assert.NoError(t, mock.ExpectationsWereMet())
}
