package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contribution is an immutable record of money added toward one goal.
type Contribution struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"user_id"`
	GoalID    string          `db:"goal_id" json:"goal_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Note      string          `db:"note" json:"note,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
