package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// DivisionPercent values across a group are expected to sum to 100 but
// that is not enforced here; see ComputeDivisions.
type SharedGroupMember struct {
	ID              int             `json:"id,omitempty" db:"id,omitempty"`
	GroupID         int             `json:"group_id,omitempty" db:"group_id,omitempty"`
	UserID          int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	DivisionPercent decimal.Decimal `json:"division_percent,omitempty" db:"division_percent,omitempty"`
	JoinedAt        sql.NullString  `json:"joined_at,omitempty" db:"joined_at,omitempty"`
}
