package models

import "database/sql"

type Notification struct {
	ID        int            `json:"id,omitempty" db:"id,omitempty"`
	UserID    int            `json:"user_id,omitempty" db:"user_id,omitempty"`
	Title     string         `json:"title,omitempty" db:"title,omitempty"`
	Message   string         `json:"message,omitempty" db:"message,omitempty"`
	Read      bool           `json:"read" db:"read"`
	CreatedAt sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}
