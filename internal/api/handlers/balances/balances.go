package balances

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/matheusvidal21/CoFi/internal/repositories/sqlconnect"
	"github.com/matheusvidal21/CoFi/internal/services"
	"github.com/matheusvidal21/CoFi/pkg/utils"
)

// FUNC TO SETTLE THE BALANCE BETWEEN THE CALLER AND A CREDITOR
func SettleBalanceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	debtorID := int(idFloat)

	type request struct {
		CreditorID int `json:"creditor_id"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.CreditorID <= 0 {
		utils.WriteError(w, "creditor_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	result, err := services.SettleBalance(ctx, tx, debtorID, req.CreditorID)
	if err != nil {
		tx.Rollback()
		switch {
		case errors.Is(err, services.ErrSelfSettlement):
			utils.WriteError(w, "you cannot settle a balance with yourself", http.StatusBadRequest)
		case errors.Is(err, services.ErrNoGroupMembership):
			utils.WriteError(w, "both users must belong to a shared group", http.StatusBadRequest)
		case errors.Is(err, services.ErrNotSameGroup):
			utils.WriteError(w, "users are not members of the same group", http.StatusForbidden)
		case errors.Is(err, services.ErrNoPendingDivisions):
			utils.WriteError(w, "no pending divisions found", http.StatusNotFound)
		case errors.Is(err, services.ErrNothingPending):
			utils.WriteError(w, "there is no outstanding balance between you", http.StatusBadRequest)
		default:
			utils.Logger.Errorf("settlement failed: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit settlement: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "payment recorded successfully",
		"data":    result,
	})
}

// FUNC TO LIST THE CALLER'S NETTED PENDING BALANCES
func GetPendingBalancesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var groupID int
	err := db.QueryRowContext(ctx, "SELECT group_id FROM shared_group_members WHERE user_id = ?", userID).Scan(&groupID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteJSON(w, map[string]interface{}{
				"status": "success",
				"data":   []services.PendingBalance{},
			})
			return
		}
		utils.Logger.Errorf("failed to look up group membership: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rows, err := db.QueryContext(ctx, `
		SELECT d.user_id, t.user_id, d.amount, d.is_paid
		FROM transaction_divisions d
		JOIN transactions t ON d.transaction_id = t.id
		WHERE t.group_id = ? AND d.is_paid = FALSE
	`, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch unpaid divisions: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var divisions []services.UnpaidDivision
	for rows.Next() {
		var div services.UnpaidDivision
		if err := rows.Scan(&div.UserID, &div.PayerID, &div.Amount, &div.IsPaid); err != nil {
			utils.Logger.Errorf("error scanning unpaid division: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		divisions = append(divisions, div)
	}
	if err := rows.Err(); err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	balances := services.ComputePendingBalances(divisions)

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(balances),
		"data":   balances,
	})
}
