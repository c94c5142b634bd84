package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/matheusvidal21/CoFi/pkg/utils"

	"github.com/robfig/cron/v3"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs every 6 hours — check expired invites
	_, err := c.AddFunc("0 */6 * * *", func() {
		err := CheckAndUpdateExpiredInvites(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to update expired invites: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule invite expiration job: %v", err)
	}

	// Runs daily at midnight — send reminders
	_, err = c.AddFunc("0 0 * * *", func() {
		err := SendReminderEmailsToDebtors(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send reminder emails: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule debtor reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (invite expiry every 6h, debtor reminders daily at midnight)")
	return c
}

// -------------------------------------------------------------
// Check and update expired group invites
// -------------------------------------------------------------
func CheckAndUpdateExpiredInvites(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE invites
		SET status = 'EXPIRED'
		WHERE expires_at < ? AND status = 'PENDING'
	`, time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		tx.Rollback()
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if rowsAffected > 0 {
		utils.Logger.Infof("Updated %d expired invites to status 'EXPIRED'", rowsAffected)
	}
	return nil
}

// -------------------------------------------------------------
// Send daily reminders to debtors (email sends run concurrently)
// -------------------------------------------------------------
func SendReminderEmailsToDebtors(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT
			d.user_id,
			u.email,
			u.name,
			c.name AS creditor_name,
			MIN(t.date) AS oldest_debt,
			SUM(d.amount) AS total_owed
		FROM transaction_divisions d
		JOIN transactions t ON d.transaction_id = t.id
		JOIN users u ON d.user_id = u.id
		JOIN users c ON t.user_id = c.id
		WHERE d.is_paid = FALSE AND d.user_id != t.user_id
		GROUP BY d.user_id, t.user_id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var wg sync.WaitGroup
	errChan := make(chan error, 10)

	for rows.Next() {
		var (
			debtorID                  int
			email, name, creditorName string
			oldestDebtRaw             sql.NullString
			totalOwed                 float64
		)

		if err := rows.Scan(
			&debtorID,
			&email,
			&name,
			&creditorName,
			&oldestDebtRaw,
			&totalOwed,
		); err != nil {
			utils.Logger.Errorf("Failed to scan debtor row: %v", err)
			continue
		}

		var oldestDebt time.Time
		if oldestDebtRaw.Valid {
			oldestDebt, err = time.Parse("2006-01-02", oldestDebtRaw.String)
			if err != nil {
				utils.Logger.Errorf("Failed to parse oldest debt date for %s: %v", email, err)
				continue
			}
		} else {
			oldestDebt = time.Now()
		}

		wg.Add(1)
		go func(email, name, creditorName string, totalOwed float64, oldestDebt time.Time) {
			defer wg.Done()

			totalOwedStr := fmt.Sprintf("%.2f", totalOwed)

			if err := utils.SendDebtorReminderEmail(
				email,
				name,
				totalOwedStr,
				creditorName,
				oldestDebt,
			); err != nil {
				errChan <- fmt.Errorf("failed to send reminder email to %s: %v", email, err)
				return
			}

			utils.Logger.Infof("Sent reminder to %s (%s) — R$%.2f owed to %s",
				name, email, totalOwed, creditorName)
		}(email, name, creditorName, totalOwed, oldestDebt)
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating debtor rows: %v", err)
		return err
	}

	utils.Logger.Info("Finished sending all debtor reminder emails.")
	return nil
}
