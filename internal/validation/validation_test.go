package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{name: "positive", amount: "50", wantErr: false},
		{name: "cent", amount: "0.01", wantErr: false},
		{name: "trailing zeros", amount: "12.500", wantErr: false},
		{name: "at max", amount: "1000000000", wantErr: false},
		{name: "zero", amount: "0", wantErr: true},
		{name: "negative", amount: "-5", wantErr: true},
		{name: "sub cent", amount: "10.005", wantErr: true},
		{name: "above max", amount: "1000000000.01", wantErr: true},
		{name: "huge", amount: "1e308", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tc.amount))
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateAmount(%s) error = %v, wantErr %v", tc.amount, err, tc.wantErr)
			}
		})
	}
}

func TestValidateRate(t *testing.T) {
	if err := ValidateRate(0); err != nil {
		t.Fatalf("zero rate should be valid: %v", err)
	}
	if err := ValidateRate(-0.02); err != nil {
		t.Fatalf("negative rate is a stored hint and should be accepted: %v", err)
	}
	if err := ValidateRate(math.NaN()); err == nil {
		t.Fatal("expected NaN rate to be rejected")
	}
}

func TestValidateGoalName(t *testing.T) {
	if err := ValidateGoalName("  New bike "); err != nil {
		t.Fatalf("expected valid name: %v", err)
	}
	if err := ValidateGoalName("   "); err == nil {
		t.Fatal("expected blank name to be rejected")
	}
	if err := ValidateGoalName(strings.Repeat("a", 101)); err == nil {
		t.Fatal("expected long name to be rejected")
	}
	if err := ValidateGoalName(strings.Repeat("é", 100)); err != nil {
		t.Fatalf("expected 100 multibyte characters to be accepted: %v", err)
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("Ana"); err != nil {
		t.Fatalf("expected valid name: %v", err)
	}
	if err := ValidateName(""); err == nil {
		t.Fatal("expected empty name to be rejected")
	}
}
