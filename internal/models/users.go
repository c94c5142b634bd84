package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type User struct {
	ID            int                 `json:"id,omitempty" db:"id,omitempty"`
	Name          string              `json:"name,omitempty" db:"name,omitempty"`
	Email         string              `json:"email,omitempty" db:"email,omitempty"`
	Password      string              `json:"password,omitempty" db:"password,omitempty"`
	MonthlyIncome decimal.NullDecimal `json:"monthly_income,omitempty" db:"monthly_income,omitempty"`
	CreatedAt     sql.NullString      `json:"created_at,omitempty" db:"created_at,omitempty"`
}

type UpdateProfileRequest struct {
	Name          string               `json:"name"`
	MonthlyIncome *decimal.NullDecimal `json:"monthly_income,omitempty"`
}
