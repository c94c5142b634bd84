package models

import "database/sql"

const (
	InviteStatusPending  = "PENDING"
	InviteStatusAccepted = "ACCEPTED"
	InviteStatusRejected = "REJECTED"
	InviteStatusExpired  = "EXPIRED"
)

type Invite struct {
	ID            int            `json:"id,omitempty" db:"id,omitempty"`
	Token         string         `json:"token,omitempty" db:"token,omitempty"`
	SenderID      int            `json:"sender_id,omitempty" db:"sender_id,omitempty"`
	SenderEmail   string         `json:"sender_email,omitempty" db:"sender_email,omitempty"`
	ReceiverID    sql.NullInt64  `json:"receiver_id,omitempty" db:"receiver_id,omitempty"`
	ReceiverEmail string         `json:"receiver_email,omitempty" db:"receiver_email,omitempty"`
	Status        string         `json:"status,omitempty" db:"status,omitempty"`
	ExpiresAt     string         `json:"expires_at,omitempty" db:"expires_at,omitempty"`
	RespondedAt   sql.NullString `json:"responded_at,omitempty" db:"responded_at,omitempty"`
	CreatedAt     sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}
