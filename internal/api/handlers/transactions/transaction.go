package transactions

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/matheusvidal21/CoFi/internal/models"
	"github.com/matheusvidal21/CoFi/internal/repositories/sqlconnect"
	"github.com/matheusvidal21/CoFi/internal/services"
	"github.com/matheusvidal21/CoFi/pkg/utils"
	"github.com/shopspring/decimal"
)

// FUNC TO CREATE A PERSONAL OR SHARED TRANSACTION
func CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
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
	userID := int(idFloat)

	type request struct {
		Amount       decimal.Decimal `json:"amount"`
		Type         string          `json:"type"`
		Category     string          `json:"category"`
		Description  string          `json:"description"`
		Date         string          `json:"date"`
		IsShared     bool            `json:"is_shared"`
		DivisionType string          `json:"division_type,omitempty"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "amount must be greater than 0", http.StatusBadRequest)
		return
	}
	if req.Type != models.TransactionTypeIncome && req.Type != models.TransactionTypeExpense {
		utils.WriteError(w, "type must be INCOME or EXPENSE", http.StatusBadRequest)
		return
	}
	if req.Category == "" || req.Date == "" {
		utils.WriteError(w, "category and date are required", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		utils.WriteError(w, "date must be in YYYY-MM-DD format", http.StatusBadRequest)
		return
	}

	divisionType := sql.NullString{}
	if req.IsShared {
		if req.DivisionType == "" {
			req.DivisionType = models.DivisionTypeEqual
		}
		switch req.DivisionType {
		case models.DivisionTypeEqual, models.DivisionTypeCustom, models.DivisionTypeIncomeBased:
			divisionType = sql.NullString{String: req.DivisionType, Valid: true}
		default:
			utils.WriteError(w, "division_type must be EQUAL, CUSTOM or INCOME_BASED", http.StatusBadRequest)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	groupID := sql.NullInt64{}
	var divisions []services.DivisionShare

	if req.IsShared {
		var gid int
		err := db.QueryRowContext(ctx, "SELECT group_id FROM shared_group_members WHERE user_id = ?", userID).Scan(&gid)
		if err != nil {
			if err == sql.ErrNoRows {
				utils.WriteError(w, "you must belong to a shared group to create shared transactions", http.StatusBadRequest)
				return
			}
			utils.Logger.Errorf("failed to look up group membership: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		groupID = sql.NullInt64{Int64: int64(gid), Valid: true}

		// Canonical member order: the remainder cent always lands on the
		// same member for the same group.
		rows, err := db.QueryContext(ctx, `
			SELECT user_id, division_percent FROM shared_group_members
			WHERE group_id = ? ORDER BY id
		`, gid)
		if err != nil {
			utils.Logger.Errorf("failed to fetch group members: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var members []services.MemberShare
		for rows.Next() {
			var member services.MemberShare
			if err := rows.Scan(&member.UserID, &member.DivisionPercent); err != nil {
				utils.Logger.Errorf("error scanning group member: %v", err)
				utils.WriteError(w, "internal server error", http.StatusInternalServerError)
				return
			}
			members = append(members, member)
		}
		if err := rows.Err(); err != nil {
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if len(members) == 0 {
			utils.WriteError(w, "no members to split the transaction with", http.StatusBadRequest)
			return
		}

		divisions = services.ComputeDivisions(req.Amount, members)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	res, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (user_id, group_id, amount, type, category, description, date, is_shared, division_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, groupID, req.Amount, req.Type, req.Category, req.Description, req.Date, req.IsShared, divisionType, now)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to create transaction: %v", err)
		utils.WriteError(w, "failed to create transaction", http.StatusInternalServerError)
		return
	}

	transactionID, _ := res.LastInsertId()

	var createdDivisions []models.TransactionDivision
	if req.IsShared {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO transaction_divisions (transaction_id, user_id, amount, percentage, is_paid, paid_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			tx.Rollback()
			utils.Logger.Errorf("failed to prepare statement: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		defer stmt.Close()

		for _, div := range divisions {
			// The payer's own share is born paid; it still participates
			// in cross-direction netting through the parent transaction.
			isPaid := div.UserID == userID
			paidAt := sql.NullString{}
			if isPaid {
				paidAt = sql.NullString{String: now, Valid: true}
			}

			divRes, err := stmt.ExecContext(ctx, transactionID, div.UserID, div.Amount, div.Percentage, isPaid, paidAt)
			if err != nil {
				tx.Rollback()
				utils.Logger.Errorf("failed to insert division: %v", err)
				utils.WriteError(w, "failed to split transaction", http.StatusInternalServerError)
				return
			}

			divID, _ := divRes.LastInsertId()
			createdDivisions = append(createdDivisions, models.TransactionDivision{
				ID:            int(divID),
				TransactionID: int(transactionID),
				UserID:        div.UserID,
				Amount:        div.Amount,
				Percentage:    div.Percentage,
				IsPaid:        isPaid,
				PaidAt:        paidAt,
			})
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status":  "success",
		"message": "transaction created successfully",
		"data": map[string]interface{}{
			"transaction_id": transactionID,
			"amount":         req.Amount,
			"is_shared":      req.IsShared,
			"divisions":      createdDivisions,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// FUNC TO GET ALL TRANSACTIONS FOR A USER
func GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
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

	scope := r.URL.Query().Get("type")
	page, limit := utils.GetPaginationParams(r)
	offset := (page - 1) * limit

	var groupID sql.NullInt64
	err := db.QueryRowContext(ctx, "SELECT group_id FROM shared_group_members WHERE user_id = ?", userID).Scan(&groupID.Int64)
	if err == nil {
		groupID.Valid = true
	} else if err != sql.ErrNoRows {
		utils.Logger.Errorf("failed to look up group membership: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	query := `
		SELECT id, user_id, group_id, amount, type, category, description, date, is_shared, division_type, created_at
		FROM transactions
	`
	var args []interface{}

	switch scope {
	case "personal":
		query += " WHERE user_id = ? AND is_shared = FALSE"
		args = append(args, userID)
	case "shared":
		if !groupID.Valid {
			utils.WriteJSON(w, map[string]interface{}{
				"status": "success",
				"count":  0,
				"data":   []models.Transaction{},
			})
			return
		}
		query += " WHERE group_id = ? AND is_shared = TRUE"
		args = append(args, groupID.Int64)
	default:
		if groupID.Valid {
			query += " WHERE (user_id = ? OR group_id = ?)"
			args = append(args, userID, groupID.Int64)
		} else {
			query += " WHERE user_id = ?"
			args = append(args, userID)
		}
	}

	query = utils.AddSorting(r, query)
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("error fetching transactions: %v", err)
		utils.WriteError(w, "error fetching transactions", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction
		err = rows.Scan(&t.ID, &t.UserID, &t.GroupID, &t.Amount, &t.Type, &t.Category, &t.Description, &t.Date, &t.IsShared, &t.DivisionType, &t.CreatedAt)
		if err != nil {
			utils.Logger.Errorf("error fetching data: %v", err)
			utils.WriteError(w, "error fetching transaction", http.StatusInternalServerError)
			return
		}
		transactions = append(transactions, t)
	}

	response := struct {
		Status   string               `json:"status"`
		Count    int                  `json:"count"`
		Page     int                  `json:"page"`
		PageSize int                  `json:"page_size"`
		Data     []models.Transaction `json:"data"`
	}{
		Status:   "success",
		Count:    len(transactions),
		Page:     page,
		PageSize: limit,
		Data:     transactions,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO GET ONE TRANSACTION WITH ITS DIVISIONS
func GetTransactionByIdHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("id")
	transactionID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid transaction ID", http.StatusBadRequest)
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

	var t models.Transaction
	err = db.QueryRowContext(ctx, `
		SELECT id, user_id, group_id, amount, type, category, description, date, is_shared, division_type, created_at
		FROM transactions WHERE id = ?
	`, transactionID).Scan(&t.ID, &t.UserID, &t.GroupID, &t.Amount, &t.Type, &t.Category, &t.Description, &t.Date, &t.IsShared, &t.DivisionType, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "transaction not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if t.UserID != userID {
		allowed := false
		if t.GroupID.Valid {
			var isMember bool
			err = db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM shared_group_members WHERE group_id = ? AND user_id = ?)", t.GroupID.Int64, userID).Scan(&isMember)
			if err != nil {
				utils.WriteError(w, "internal server error", http.StatusInternalServerError)
				return
			}
			allowed = isMember
		}
		if !allowed {
			utils.WriteError(w, "forbidden: this transaction does not belong to you", http.StatusForbidden)
			return
		}
	}

	divisions := make([]models.TransactionDivision, 0)
	if t.IsShared {
		rows, err := db.QueryContext(ctx, `
			SELECT id, transaction_id, user_id, amount, percentage, is_paid, paid_at
			FROM transaction_divisions WHERE transaction_id = ?
		`, transactionID)
		if err != nil {
			utils.Logger.Errorf("failed to fetch divisions: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var div models.TransactionDivision
			if err := rows.Scan(&div.ID, &div.TransactionID, &div.UserID, &div.Amount, &div.Percentage, &div.IsPaid, &div.PaidAt); err != nil {
				utils.Logger.Errorf("error scanning division: %v", err)
				utils.WriteError(w, "internal server error", http.StatusInternalServerError)
				return
			}
			divisions = append(divisions, div)
		}
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"transaction": t,
			"divisions":   divisions,
		},
	})
}
