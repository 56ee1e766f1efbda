package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		name          string
		target        string
		current       string
		wantProgress  float64
		wantRemaining string
		wantCompleted bool
	}{
		{"empty", "1200", "0", 0, "1200", false},
		{"partial", "1200", "200", 16.7, "1000", false},
		{"exact", "1200", "1200", 100, "0", true},
		{"over target is capped", "100", "150.5", 100, "0", true},
		{"cents", "0.3", "0.1", 33.3, "0.2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Goal{
				TargetAmount:  decimal.RequireFromString(tt.target),
				CurrentAmount: decimal.RequireFromString(tt.current),
			}
			if got := g.Progress(); got != tt.wantProgress {
				t.Fatalf("Progress() = %v, want %v", got, tt.wantProgress)
			}
			if got := g.Remaining(); !got.Equal(decimal.RequireFromString(tt.wantRemaining)) {
				t.Fatalf("Remaining() = %s, want %s", got, tt.wantRemaining)
			}
			if got := g.Completed(); got != tt.wantCompleted {
				t.Fatalf("Completed() = %v, want %v", got, tt.wantCompleted)
			}
		})
	}
}

func TestGoalJSON(t *testing.T) {
	g := Goal{
		ID:            "g1",
		Name:          "Laptop",
		TargetAmount:  decimal.RequireFromString("1200"),
		CurrentAmount: decimal.RequireFromString("300.10"),
		Icon:          DefaultGoalIcon,
	}

	data, err := json.Marshal(&g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fields["progress"] != 25.0 {
		t.Fatalf("progress = %v", fields["progress"])
	}
	if fields["remaining"] != "899.9" {
		t.Fatalf("remaining = %v", fields["remaining"])
	}
	if fields["current_amount"] != "300.1" || fields["name"] != "Laptop" {
		t.Fatalf("goal fields lost: %s", data)
	}

	var back Goal
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("decode into Goal: %v", err)
	}
	if !back.CurrentAmount.Equal(g.CurrentAmount) || back.ID != "g1" {
		t.Fatalf("round trip = %+v", back)
	}
}
