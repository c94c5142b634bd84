package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// TransactionDivision is one member's owed share of a shared transaction.
// Lifecycle: unpaid until a settlement marks it paid; terminal, no reversal.
type TransactionDivision struct {
	ID            int             `json:"id,omitempty" db:"id,omitempty"`
	TransactionID int             `json:"transaction_id,omitempty" db:"transaction_id,omitempty"`
	UserID        int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Amount        decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Percentage    decimal.Decimal `json:"percentage,omitempty" db:"percentage,omitempty"`
	IsPaid        bool            `json:"is_paid" db:"is_paid"`
	PaidAt        sql.NullString  `json:"paid_at,omitempty" db:"paid_at,omitempty"`
}
