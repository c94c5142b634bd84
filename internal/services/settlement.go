package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matheusvidal21/CoFi/internal/models"
	"github.com/matheusvidal21/CoFi/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	// Precondition failures: rejected before any mutation.
	ErrSelfSettlement    = errors.New("cannot settle a balance with yourself")
	ErrNoGroupMembership = errors.New("user does not belong to a shared group")
	ErrNotSameGroup      = errors.New("users are not members of the same group")

	// ErrNoPendingDivisions means there is nothing to settle at all.
	ErrNoPendingDivisions = errors.New("no pending divisions between the users")

	// ErrNothingPending means the unpaid divisions offset to a sub-cent
	// net; an expected no-op outcome, not a failure.
	ErrNothingPending = errors.New("no outstanding balance between the users")
)

var subCent = decimal.New(1, -2)

type SettlementResult struct {
	TotalAmount      decimal.Decimal `json:"total_amount"`
	DebtorOwed       decimal.Decimal `json:"debtor_owed"`
	CreditorOwed     decimal.Decimal `json:"creditor_owed"`
	NetSettlement    decimal.Decimal `json:"net_settlement"`
	DivisionsSettled int             `json:"divisions_settled"`
	PaidBy           int             `json:"paid_by"`
}

// SettleBalance nets all unpaid divisions between debtor and creditor
// and clears them atomically inside the supplied transaction. Every
// contributing division in BOTH directions is marked paid: the net was
// derived from the complete unpaid sets, so leaving any behind would
// double-count on a later settlement. One compensating personal EXPENSE
// transaction for |net| is recorded for whichever party ends up paying.
//
// The caller owns tx: it must commit on success and roll back on any
// returned error, so a partial settlement is never observable.
func SettleBalance(ctx context.Context, tx *sql.Tx, debtorID, creditorID int) (*SettlementResult, error) {
	if debtorID == creditorID {
		return nil, ErrSelfSettlement
	}

	debtorGroup, err := lookupGroupMembership(ctx, tx, debtorID)
	if err != nil {
		return nil, err
	}
	creditorGroup, err := lookupGroupMembership(ctx, tx, creditorID)
	if err != nil {
		return nil, err
	}
	if debtorGroup != creditorGroup {
		return nil, ErrNotSameGroup
	}

	debtorDivisions, err := loadUnpaidDivisions(ctx, tx, debtorID, creditorID, debtorGroup)
	if err != nil {
		return nil, err
	}
	creditorDivisions, err := loadUnpaidDivisions(ctx, tx, creditorID, debtorID, debtorGroup)
	if err != nil {
		return nil, err
	}

	if len(debtorDivisions)+len(creditorDivisions) == 0 {
		return nil, ErrNoPendingDivisions
	}

	debtorOwed := sumDivisions(debtorDivisions)
	creditorOwed := sumDivisions(creditorDivisions)
	net := debtorOwed.Sub(creditorOwed)

	if net.Abs().LessThan(subCent) {
		return nil, ErrNothingPending
	}

	divisionIDs := make([]int, 0, len(debtorDivisions)+len(creditorDivisions))
	for _, div := range debtorDivisions {
		divisionIDs = append(divisionIDs, div.ID)
	}
	for _, div := range creditorDivisions {
		divisionIDs = append(divisionIDs, div.ID)
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	if err := markDivisionsPaid(ctx, tx, divisionIDs, now); err != nil {
		return nil, err
	}

	// net > 0: the debtor pays. net < 0: the direction flips and the
	// creditor is the one recording the real payment.
	payerID, payeeID := debtorID, creditorID
	if net.IsNegative() {
		payerID, payeeID = creditorID, debtorID
	}

	payeeName, err := lookupUserName(ctx, tx, payeeID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Pagamento para %s - Dívidas compartilhadas", payeeName)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (user_id, amount, type, category, description, date, is_shared)
		VALUES (?, ?, ?, ?, ?, ?, FALSE)
	`, payerID, net.Abs(), models.TransactionTypeExpense, models.SettlementCategory, description, now)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to record settlement transaction")
	}

	result := &SettlementResult{
		TotalAmount:      net.Abs(),
		DebtorOwed:       debtorOwed,
		CreditorOwed:     creditorOwed,
		NetSettlement:    net,
		DivisionsSettled: len(divisionIDs),
		PaidBy:           payerID,
	}

	utils.Logger.WithFields(logrus.Fields{
		"debtor_id":         debtorID,
		"creditor_id":       creditorID,
		"debtor_owed":       debtorOwed.StringFixed(2),
		"creditor_owed":     creditorOwed.StringFixed(2),
		"net":               net.StringFixed(2),
		"paid_by":           payerID,
		"divisions_settled": len(divisionIDs),
	}).Info("balance settled")

	return result, nil
}

func lookupGroupMembership(ctx context.Context, tx *sql.Tx, userID int) (int, error) {
	var groupID int
	err := tx.QueryRowContext(ctx, "SELECT group_id FROM shared_group_members WHERE user_id = ?", userID).Scan(&groupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNoGroupMembership
		}
		return 0, utils.ErrorHandler(err, "failed to look up group membership")
	}
	return groupID, nil
}

type unpaidDivisionRow struct {
	ID     int
	Amount decimal.Decimal
}

// loadUnpaidDivisions returns the unpaid shares owerID has on
// transactions payerID paid within the group.
func loadUnpaidDivisions(ctx context.Context, tx *sql.Tx, owerID, payerID, groupID int) ([]unpaidDivisionRow, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT d.id, d.amount
		FROM transaction_divisions d
		JOIN transactions t ON d.transaction_id = t.id
		WHERE d.user_id = ? AND d.is_paid = FALSE AND t.user_id = ? AND t.group_id = ?
	`, owerID, payerID, groupID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to load unpaid divisions")
	}
	defer rows.Close()

	var divisions []unpaidDivisionRow
	for rows.Next() {
		var div unpaidDivisionRow
		if err := rows.Scan(&div.ID, &div.Amount); err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan unpaid division")
		}
		divisions = append(divisions, div)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.ErrorHandler(err, "failed to iterate unpaid divisions")
	}

	return divisions, nil
}

func sumDivisions(divisions []unpaidDivisionRow) decimal.Decimal {
	total := decimal.Zero
	for _, div := range divisions {
		total = total.Add(div.Amount)
	}
	return total
}

func markDivisionsPaid(ctx context.Context, tx *sql.Tx, divisionIDs []int, paidAt string) error {
	placeholders := make([]string, len(divisionIDs))
	args := make([]interface{}, 0, len(divisionIDs)+1)
	args = append(args, paidAt)
	for i, id := range divisionIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		UPDATE transaction_divisions SET is_paid = TRUE, paid_at = ? WHERE id IN (%s)
	`, strings.Join(placeholders, ","))

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return utils.ErrorHandler(err, "failed to mark divisions paid")
	}

	affected, err := res.RowsAffected()
	if err == nil && int(affected) != len(divisionIDs) {
		return utils.ErrorHandler(
			fmt.Errorf("expected %d divisions updated, got %d", len(divisionIDs), affected),
			"settlement touched an unexpected number of divisions",
		)
	}

	return nil
}

func lookupUserName(ctx context.Context, tx *sql.Tx, userID int) (string, error) {
	var name string
	err := tx.QueryRowContext(ctx, "SELECT name FROM users WHERE id = ?", userID).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return "parceiro", nil
		}
		return "", utils.ErrorHandler(err, "failed to look up user name")
	}
	return name, nil
}
