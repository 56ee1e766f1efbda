package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stats is derived from the ledger on every read and never persisted.
type Stats struct {
	TotalSaved         decimal.Decimal `json:"total_saved"`
	TotalGoals         int             `json:"total_goals"`
	CompletedGoals     int             `json:"completed_goals"`
	TotalContributions int             `json:"total_contributions"`
}

type GoalExport struct {
	Goal          *Goal           `json:"goal"`
	Contributions []*Contribution `json:"contributions"`
}

type LedgerExport struct {
	UserID     string        `json:"user_id"`
	ExportedAt time.Time     `json:"exported_at"`
	Goals      []*GoalExport `json:"goals"`
	Stats      Stats         `json:"stats"`
}
