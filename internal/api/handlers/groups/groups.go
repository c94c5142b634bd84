package groups

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/matheusvidal21/CoFi/internal/models"
	"github.com/matheusvidal21/CoFi/internal/repositories/sqlconnect"
	"github.com/matheusvidal21/CoFi/pkg/utils"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FUNC TO GET THE CALLER'S GROUP AND ITS MEMBERS
func GetMyGroupHandler(w http.ResponseWriter, r *http.Request) {
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

	var group models.SharedGroup
	err := db.QueryRowContext(ctx, `
		SELECT g.id, g.name, g.status, g.created_at
		FROM shared_groups g
		JOIN shared_group_members m ON m.group_id = g.id
		WHERE m.user_id = ?
	`, userID).Scan(&group.ID, &group.Name, &group.Status, &group.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "you do not belong to a shared group", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch group: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, group_id, user_id, division_percent, joined_at
		FROM shared_group_members
		WHERE group_id = ?
		ORDER BY id
	`, group.ID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch group members: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	members := make([]models.SharedGroupMember, 0, 2)
	for rows.Next() {
		var m models.SharedGroupMember
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.DivisionPercent, &m.JoinedAt); err != nil {
			utils.Logger.Errorf("error scanning group member: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		members = append(members, m)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"group":   group,
			"members": members,
		},
	})
}

// FUNC TO UPDATE THE GROUP'S DIVISION PERCENTAGES
func UpdatePercentagesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
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

	type memberPercent struct {
		UserID  int             `json:"user_id"`
		Percent decimal.Decimal `json:"percent"`
	}
	type request struct {
		Percentages []memberPercent `json:"percentages"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	total := decimal.Zero
	for _, p := range req.Percentages {
		if p.Percent.IsNegative() {
			utils.WriteError(w, "percentages cannot be negative", http.StatusBadRequest)
			return
		}
		total = total.Add(p.Percent)
	}
	if !total.Equal(hundred) {
		utils.WriteError(w, "percentages must sum to 100", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var groupID int
	err := db.QueryRowContext(ctx, "SELECT group_id FROM shared_group_members WHERE user_id = ?", userID).Scan(&groupID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "you do not belong to a shared group", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to look up group membership: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var memberCount int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shared_group_members WHERE group_id = ?", groupID).Scan(&memberCount)
	if err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if len(req.Percentages) != memberCount {
		utils.WriteError(w, "percentages must cover every group member", http.StatusBadRequest)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	for _, p := range req.Percentages {
		res, err := tx.ExecContext(ctx, `
			UPDATE shared_group_members SET division_percent = ? WHERE group_id = ? AND user_id = ?
		`, p.Percent, groupID, p.UserID)
		if err != nil {
			tx.Rollback()
			utils.Logger.Errorf("failed to update division percent: %v", err)
			utils.WriteError(w, "failed to update percentages", http.StatusInternalServerError)
			return
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			tx.Rollback()
			utils.WriteError(w, "user is not a member of your group", http.StatusBadRequest)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit percentages update: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "division percentages updated",
	})
}
