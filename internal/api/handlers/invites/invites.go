package invites

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matheusvidal21/CoFi/internal/models"
	"github.com/matheusvidal21/CoFi/internal/repositories/sqlconnect"
	"github.com/matheusvidal21/CoFi/pkg/utils"
)

const timeLayout = "2006-01-02 15:04:05"

// FUNC TO SEND A SHARED GROUP INVITE
func SendInviteHandler(w http.ResponseWriter, r *http.Request) {
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
	senderID := int(idFloat)

	type request struct {
		Email string `json:"email"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	receiverEmail := strings.ToLower(strings.TrimSpace(req.Email))
	if receiverEmail == "" {
		utils.WriteError(w, "email is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var sender models.User
	err := db.QueryRowContext(ctx, "SELECT id, name, email FROM users WHERE id = ?", senderID).
		Scan(&sender.ID, &sender.Name, &sender.Email)
	if err != nil {
		utils.Logger.Errorf("failed to fetch sender: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if receiverEmail == sender.Email {
		utils.WriteError(w, "you cannot invite yourself", http.StatusBadRequest)
		return
	}

	var receiver models.User
	err = db.QueryRowContext(ctx, "SELECT id, name, email FROM users WHERE email = ?", receiverEmail).
		Scan(&receiver.ID, &receiver.Name, &receiver.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "user not found, they need to create an account first", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch receiver: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// MVP: one group per user, enforced here at invite time.
	var exists bool
	err = db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM shared_group_members WHERE user_id = ?)", receiver.ID).Scan(&exists)
	if err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if exists {
		utils.WriteError(w, "this user already belongs to a shared group", http.StatusBadRequest)
		return
	}

	err = db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM shared_group_members WHERE user_id = ?)", senderID).Scan(&exists)
	if err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if exists {
		utils.WriteError(w, "you already belong to a shared group", http.StatusBadRequest)
		return
	}

	// Sweep expired invites before the duplicate check so a stale
	// PENDING row cannot block a fresh invite.
	_, err = db.ExecContext(ctx, `
		UPDATE invites SET status = ? WHERE status = ? AND expires_at < ?
	`, models.InviteStatusExpired, models.InviteStatusPending, time.Now().UTC().Format(timeLayout))
	if err != nil {
		utils.Logger.Errorf("failed to sweep expired invites: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	err = db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM invites WHERE sender_id = ? AND receiver_email = ? AND status = ?)
	`, senderID, receiverEmail, models.InviteStatusPending).Scan(&exists)
	if err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if exists {
		utils.WriteError(w, fmt.Sprintf("a pending invite to %s already exists", receiverEmail), http.StatusConflict)
		return
	}

	durationDays := 7
	if v := os.Getenv("INVITE_TOKEN_EXP_DURATION"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			durationDays = parsed
		}
	}

	token := uuid.NewString()
	expiryTime := time.Now().UTC().Add(time.Hour * 24 * time.Duration(durationDays))
	expiry := expiryTime.Format(timeLayout)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO invites (token, sender_id, sender_email, receiver_id, receiver_email, status, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, token, senderID, sender.Email, receiver.ID, receiverEmail, models.InviteStatusPending, expiry)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to create invite: %v", err)
		utils.WriteError(w, "failed to send invite", http.StatusInternalServerError)
		return
	}

	message := fmt.Sprintf("%s convidou você para participar de um grupo compartilhado. Token: %s", sender.Name, token)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO notifications (user_id, title, message) VALUES (?, ?, ?)
	`, receiver.ID, "Novo convite para grupo", message)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to create notification: %v", err)
		utils.WriteError(w, "failed to send invite", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	inviteLink := fmt.Sprintf("%s/invite/%s", os.Getenv("APP_BASE_URL"), token)
	go func(email, senderName, link string, expiresAt time.Time) {
		if err := utils.SendInviteEmail(email, senderName, link, expiresAt); err != nil {
			utils.Logger.Errorf("failed to send invite email to %s: %v", email, err)
		}
	}(receiverEmail, sender.Name, inviteLink, expiryTime)

	utils.WriteJSON(w, map[string]interface{}{
		"status":       "success",
		"message":      "invite sent successfully",
		"invite_token": token,
	})
}

// FUNC TO LIST PENDING INVITES SENT AND RECEIVED BY THE CALLER
func ListInvitesHandler(w http.ResponseWriter, r *http.Request) {
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

	sent := make([]models.Invite, 0)
	rows, err := db.QueryContext(ctx, `
		SELECT id, receiver_email, expires_at, created_at
		FROM invites WHERE sender_id = ? AND status = ?
		ORDER BY created_at DESC
	`, userID, models.InviteStatusPending)
	if err != nil {
		utils.Logger.Errorf("failed to fetch sent invites: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var inv models.Invite
		if err := rows.Scan(&inv.ID, &inv.ReceiverEmail, &inv.ExpiresAt, &inv.CreatedAt); err != nil {
			utils.Logger.Errorf("error scanning sent invite: %v", err)
			continue
		}
		sent = append(sent, inv)
	}

	received := make([]models.Invite, 0)
	rows2, err := db.QueryContext(ctx, `
		SELECT id, token, sender_email, expires_at, created_at
		FROM invites WHERE receiver_id = ? AND status = ?
		ORDER BY created_at DESC
	`, userID, models.InviteStatusPending)
	if err != nil {
		utils.Logger.Errorf("failed to fetch received invites: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer rows2.Close()

	for rows2.Next() {
		var inv models.Invite
		if err := rows2.Scan(&inv.ID, &inv.Token, &inv.SenderEmail, &inv.ExpiresAt, &inv.CreatedAt); err != nil {
			utils.Logger.Errorf("error scanning received invite: %v", err)
			continue
		}
		received = append(received, inv)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"sent_invites":     sent,
			"received_invites": received,
		},
	})
}

// loadPendingInvite fetches an invite by token and lazily expires it
// when its deadline has passed, regardless of the stored status.
func loadPendingInvite(ctx context.Context, db *sql.DB, token string) (*models.Invite, int, string) {
	var inv models.Invite
	err := db.QueryRowContext(ctx, `
		SELECT id, token, sender_id, sender_email, receiver_id, receiver_email, status, expires_at, created_at
		FROM invites WHERE token = ?
	`, token).Scan(&inv.ID, &inv.Token, &inv.SenderID, &inv.SenderEmail, &inv.ReceiverID, &inv.ReceiverEmail, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, http.StatusNotFound, "invite not found"
		}
		utils.Logger.Errorf("failed to fetch invite: %v", err)
		return nil, http.StatusInternalServerError, "internal server error"
	}

	expiresAt, err := time.Parse(timeLayout, inv.ExpiresAt)
	if err == nil && time.Now().UTC().After(expiresAt) {
		if inv.Status == models.InviteStatusPending {
			if _, err := db.ExecContext(ctx, "UPDATE invites SET status = ? WHERE id = ?", models.InviteStatusExpired, inv.ID); err != nil {
				utils.Logger.Errorf("failed to expire invite %d: %v", inv.ID, err)
			}
		}
		return nil, http.StatusGone, "this invite has expired"
	}

	if inv.Status != models.InviteStatusPending {
		return nil, http.StatusGone, "this invite has already been responded to or expired"
	}

	return &inv, 0, ""
}

// FUNC TO READ AN INVITE BY ITS TOKEN
func GetInviteByTokenHandler(w http.ResponseWriter, r *http.Request) {
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

	token := r.PathValue("token")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	inv, errCode, errMsg := loadPendingInvite(ctx, db, token)
	if inv == nil {
		utils.WriteError(w, errMsg, errCode)
		return
	}

	var senderName string
	if err := db.QueryRowContext(ctx, "SELECT name FROM users WHERE id = ?", inv.SenderID).Scan(&senderName); err != nil {
		utils.Logger.Errorf("failed to fetch sender name: %v", err)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"invite":      inv,
			"sender_name": senderName,
		},
	})
}

// FUNC TO ACCEPT OR REJECT AN INVITE
func RespondInviteHandler(w http.ResponseWriter, r *http.Request) {
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

	token := r.PathValue("token")

	type request struct {
		Action string `json:"action"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Action != "accept" && req.Action != "reject" {
		utils.WriteError(w, "action must be accept or reject", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	inv, errCode, errMsg := loadPendingInvite(ctx, db, token)
	if inv == nil {
		utils.WriteError(w, errMsg, errCode)
		return
	}

	now := time.Now().UTC().Format(timeLayout)

	if req.Action == "reject" {
		_, err := db.ExecContext(ctx, `
			UPDATE invites SET status = ?, responded_at = ?, receiver_id = ? WHERE id = ?
		`, models.InviteStatusRejected, now, userID, inv.ID)
		if err != nil {
			utils.Logger.Errorf("failed to reject invite: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}

		utils.WriteJSON(w, map[string]interface{}{
			"status":  "success",
			"message": "invite rejected",
		})
		return
	}

	// Accept: the single-group constraint is re-checked here because it
	// is only an application-level invariant.
	var exists bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM shared_group_members WHERE user_id = ?)", userID).Scan(&exists)
	if err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if exists {
		utils.WriteError(w, "you already belong to a shared group", http.StatusBadRequest)
		return
	}

	err = db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM shared_group_members WHERE user_id = ?)", inv.SenderID).Scan(&exists)
	if err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if exists {
		utils.WriteError(w, "the sender already belongs to a shared group", http.StatusBadRequest)
		return
	}

	var senderName, receiverName string
	if err := db.QueryRowContext(ctx, "SELECT name FROM users WHERE id = ?", inv.SenderID).Scan(&senderName); err != nil {
		senderName = inv.SenderEmail
	}
	if err := db.QueryRowContext(ctx, "SELECT name FROM users WHERE id = ?", userID).Scan(&receiverName); err != nil {
		utils.WriteError(w, "user not found, please sign up", http.StatusNotFound)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	groupName := fmt.Sprintf("Grupo de %s e %s", senderName, receiverName)
	res, err := tx.ExecContext(ctx, "INSERT INTO shared_groups (name, status) VALUES (?, 'ACTIVE')", groupName)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to create shared group: %v", err)
		utils.WriteError(w, "failed to accept invite", http.StatusInternalServerError)
		return
	}

	groupID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to get last inserted ID: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Default 50/50 split; adjustable later via group settings.
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO shared_group_members (group_id, user_id, division_percent) VALUES (?, ?, 50)
	`)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to prepare statement: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer stmt.Close()

	for _, memberID := range []int{inv.SenderID, userID} {
		if _, err := stmt.ExecContext(ctx, groupID, memberID); err != nil {
			tx.Rollback()
			utils.Logger.Errorf("failed to add group member %d: %v", memberID, err)
			utils.WriteError(w, "failed to accept invite", http.StatusInternalServerError)
			return
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE invites SET status = ?, responded_at = ?, receiver_id = ? WHERE id = ?
	`, models.InviteStatusAccepted, now, userID, inv.ID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to update invite: %v", err)
		utils.WriteError(w, "failed to accept invite", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":   "success",
		"message":  "invite accepted",
		"group_id": groupID,
	})
}

// FUNC FOR A SENDER TO CANCEL A PENDING INVITE
func CancelInviteHandler(w http.ResponseWriter, r *http.Request) {
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
		InviteID int `json:"invite_id"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.InviteID <= 0 {
		utils.WriteError(w, "invite_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var inv models.Invite
	err := db.QueryRowContext(ctx, "SELECT id, sender_id, status FROM invites WHERE id = ?", req.InviteID).
		Scan(&inv.ID, &inv.SenderID, &inv.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "invite not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch invite: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if inv.SenderID != userID {
		utils.WriteError(w, "you are not allowed to cancel this invite", http.StatusForbidden)
		return
	}

	if inv.Status != models.InviteStatusPending {
		utils.WriteError(w, "only pending invites can be cancelled", http.StatusBadRequest)
		return
	}

	_, err = db.ExecContext(ctx, `
		UPDATE invites SET status = ?, responded_at = ? WHERE id = ?
	`, models.InviteStatusRejected, time.Now().UTC().Format(timeLayout), inv.ID)
	if err != nil {
		utils.Logger.Errorf("failed to cancel invite: %v", err)
		utils.WriteError(w, "failed to cancel invite", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "invite cancelled successfully",
	})
}
