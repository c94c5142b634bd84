package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeIncome  = "INCOME"
	TransactionTypeExpense = "EXPENSE"

	DivisionTypeEqual       = "EQUAL"
	DivisionTypeCustom      = "CUSTOM"
	DivisionTypeIncomeBased = "INCOME_BASED"

	// Category assigned to the compensating transaction a settlement creates.
	SettlementCategory = "Pagamento de Dívida"
)

type Transaction struct {
	ID           int             `json:"id,omitempty" db:"id,omitempty"`
	UserID       int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	GroupID      sql.NullInt64   `json:"group_id,omitempty" db:"group_id,omitempty"`
	Amount       decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Type         string          `json:"type,omitempty" db:"type,omitempty"`
	Category     string          `json:"category,omitempty" db:"category,omitempty"`
	Description  string          `json:"description,omitempty" db:"description,omitempty"`
	Date         string          `json:"date,omitempty" db:"date,omitempty"`
	IsShared     bool            `json:"is_shared" db:"is_shared"`
	DivisionType sql.NullString  `json:"division_type,omitempty" db:"division_type,omitempty"`
	CreatedAt    sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
