package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultGoalIcon         = "🎯"
	DefaultAnnualReturnRate = 0.07
)

// MoneyPlaces is the precision of every stored amount.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

type Goal struct {
	ID               string          `db:"id" json:"id"`
	UserID           string          `db:"user_id" json:"user_id"`
	Name             string          `db:"name" json:"name"`
	Description      string          `db:"description" json:"description,omitempty"`
	TargetAmount     decimal.Decimal `db:"target_amount" json:"target_amount"`
	CurrentAmount    decimal.Decimal `db:"current_amount" json:"current_amount"`
	Icon             string          `db:"icon" json:"icon"`
	AnnualReturnRate float64         `db:"annual_return_rate" json:"annual_return_rate"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// Completed reports whether contributions have reached the target.
func (g *Goal) Completed() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// Progress returns the completion percentage, capped at 100 and rounded to
// one decimal place.
func (g *Goal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	pct := g.CurrentAmount.Mul(hundred).Div(g.TargetAmount)
	return decimal.Min(pct, hundred).Round(1).InexactFloat64()
}

func (g *Goal) Remaining() decimal.Decimal {
	return decimal.Max(decimal.Zero, g.TargetAmount.Sub(g.CurrentAmount))
}

// MarshalJSON adds the derived progress and remaining fields.
func (g Goal) MarshalJSON() ([]byte, error) {
	type goal Goal
	return json.Marshal(struct {
		goal
		Progress  float64         `json:"progress"`
		Remaining decimal.Decimal `json:"remaining"`
	}{goal(g), g.Progress(), g.Remaining()})
}
