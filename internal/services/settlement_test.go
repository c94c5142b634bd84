package services

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	membershipQuery = "SELECT group_id FROM shared_group_members WHERE user_id = ?"
	divisionsQuery  = "SELECT d.id, d.amount"
	userNameQuery   = "SELECT name FROM users WHERE id = ?"
	markPaidStmt    = "UPDATE transaction_divisions SET is_paid = TRUE"
	insertTxStmt    = "INSERT INTO transactions"
)

func newSettlementTx(t *testing.T) (*sql.Tx, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	return tx, mock
}

func expectMembership(mock sqlmock.Sqlmock, userID, groupID int) {
	mock.ExpectQuery(regexp.QuoteMeta(membershipQuery)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"group_id"}).AddRow(groupID))
}

func expectDivisions(mock sqlmock.Sqlmock, owerID, payerID, groupID int, rows *sqlmock.Rows) {
	mock.ExpectQuery(divisionsQuery).
		WithArgs(owerID, payerID, groupID).
		WillReturnRows(rows)
}

func divisionRows(pairs ...interface{}) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "amount"})
	for i := 0; i < len(pairs); i += 2 {
		rows.AddRow(pairs[i], pairs[i+1])
	}
	return rows
}

func TestSettleBalanceNetsAndClearsBothDirections(t *testing.T) {
	tx, mock := newSettlementTx(t)

	expectMembership(mock, 1, 7)
	expectMembership(mock, 2, 7)
	expectDivisions(mock, 1, 2, 7, divisionRows(11, "100.00", 12, "50.00"))
	expectDivisions(mock, 2, 1, 7, divisionRows(21, "40.00"))

	mock.ExpectExec(markPaidStmt).
		WithArgs(sqlmock.AnyArg(), 11, 12, 21).
		WillReturnResult(sqlmock.NewResult(0, 3))

	mock.ExpectQuery(regexp.QuoteMeta(userNameQuery)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Maria"))

	mock.ExpectExec(insertTxStmt).
		WithArgs(1, sqlmock.AnyArg(), "EXPENSE", "Pagamento de Dívida", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(99, 1))

	result, err := SettleBalance(context.Background(), tx, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, "150.00", result.DebtorOwed.StringFixed(2))
	assert.Equal(t, "40.00", result.CreditorOwed.StringFixed(2))
	assert.Equal(t, "110.00", result.NetSettlement.StringFixed(2))
	assert.Equal(t, "110.00", result.TotalAmount.StringFixed(2))
	assert.Equal(t, 3, result.DivisionsSettled)
	assert.Equal(t, 1, result.PaidBy)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleBalanceDirectionFlipsWhenCreditorOwesMore(t *testing.T) {
	tx, mock := newSettlementTx(t)

	expectMembership(mock, 1, 7)
	expectMembership(mock, 2, 7)
	expectDivisions(mock, 1, 2, 7, divisionRows(11, "40.00"))
	expectDivisions(mock, 2, 1, 7, divisionRows(21, "150.00"))

	mock.ExpectExec(markPaidStmt).
		WithArgs(sqlmock.AnyArg(), 11, 21).
		WillReturnResult(sqlmock.NewResult(0, 2))

	// net is negative, so the creditor pays and the payee is the debtor
	mock.ExpectQuery(regexp.QuoteMeta(userNameQuery)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("João"))

	mock.ExpectExec(insertTxStmt).
		WithArgs(2, sqlmock.AnyArg(), "EXPENSE", "Pagamento de Dívida", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(99, 1))

	result, err := SettleBalance(context.Background(), tx, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, "-110.00", result.NetSettlement.StringFixed(2))
	assert.Equal(t, "110.00", result.TotalAmount.StringFixed(2))
	assert.Equal(t, 2, result.PaidBy)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleBalanceSelfSettlement(t *testing.T) {
	tx, mock := newSettlementTx(t)

	result, err := SettleBalance(context.Background(), tx, 5, 5)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrSelfSettlement)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleBalanceNoGroupMembership(t *testing.T) {
	tx, mock := newSettlementTx(t)

	mock.ExpectQuery(regexp.QuoteMeta(membershipQuery)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"group_id"}))

	result, err := SettleBalance(context.Background(), tx, 1, 2)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoGroupMembership)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleBalanceDifferentGroups(t *testing.T) {
	tx, mock := newSettlementTx(t)

	expectMembership(mock, 1, 7)
	expectMembership(mock, 2, 8)

	result, err := SettleBalance(context.Background(), tx, 1, 2)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNotSameGroup)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleBalanceNoPendingDivisions(t *testing.T) {
	tx, mock := newSettlementTx(t)

	expectMembership(mock, 1, 7)
	expectMembership(mock, 2, 7)
	expectDivisions(mock, 1, 2, 7, divisionRows())
	expectDivisions(mock, 2, 1, 7, divisionRows())

	result, err := SettleBalance(context.Background(), tx, 1, 2)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoPendingDivisions)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleBalanceSubCentNetIsNoOp(t *testing.T) {
	tx, mock := newSettlementTx(t)

	expectMembership(mock, 1, 7)
	expectMembership(mock, 2, 7)
	expectDivisions(mock, 1, 2, 7, divisionRows(11, "50.00"))
	expectDivisions(mock, 2, 1, 7, divisionRows(21, "50.00"))

	// no Exec expectations: nothing may be mutated on a no-op
	result, err := SettleBalance(context.Background(), tx, 1, 2)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNothingPending)

	assert.NoError(t, mock.ExpectationsWereMet())
}
