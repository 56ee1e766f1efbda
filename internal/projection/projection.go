// Package projection simulates compound growth of periodic deposits.
package projection

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidParams = errors.New("invalid projection parameters")

type Cadence string

const (
	Weekly  Cadence = "weekly"
	Monthly Cadence = "monthly"
)

// weeksPerMonth maps monthly periods onto the weekly chart axis and converts
// monthly deposits to weekly ones.
const weeksPerMonth = 4.33

// maxPoints bounds the size of the sampled series.
const maxPoints = 20

// MaxYears caps the horizon so one request stays a bounded loop.
const MaxYears = 100

// ParseCadence accepts "weekly" or "monthly".
func ParseCadence(s string) (Cadence, error) {
	switch Cadence(s) {
	case Weekly, Monthly:
		return Cadence(s), nil
	}
	return "", fmt.Errorf("%w: unknown cadence %q", ErrInvalidParams, s)
}

func (c Cadence) PeriodsPerYear() int {
	switch c {
	case Weekly:
		return 52
	case Monthly:
		return 12
	}
	return 0
}

type Params struct {
	Amount     float64 // deposit per period
	Cadence    Cadence
	Years      int
	Rate       float64 // annual, as a fraction
	GoalAmount float64
}

// Point is one sampled step of the simulation.
type Point struct {
	Period    int     `json:"period"`
	Week      float64 `json:"week"`
	Total     float64 `json:"total"`
	Deposited float64 `json:"deposited"`
}

type Result struct {
	Total          float64 `json:"total"`
	Deposited      float64 `json:"deposited"`
	InterestEarned float64 `json:"interest_earned"`
	Series         []Point `json:"series"`
	NextDeposit    float64 `json:"next_deposit"`
	Months         int     `json:"months"`
}

func (p Params) validate() error {
	if p.Cadence.PeriodsPerYear() == 0 {
		return fmt.Errorf("%w: unknown cadence %q", ErrInvalidParams, p.Cadence)
	}
	if !finite(p.Amount) || p.Amount < 0 {
		return fmt.Errorf("%w: amount must be a finite non-negative number", ErrInvalidParams)
	}
	if p.Years < 0 || p.Years > MaxYears {
		return fmt.Errorf("%w: years must be between 0 and %d", ErrInvalidParams, MaxYears)
	}
	if !finite(p.Rate) || p.Rate < 0 {
		return fmt.Errorf("%w: rate must be a finite non-negative number", ErrInvalidParams)
	}
	if !finite(p.GoalAmount) || p.GoalAmount < 0 {
		return fmt.Errorf("%w: goal amount must be a finite non-negative number", ErrInvalidParams)
	}
	return nil
}

// Project runs the deposit-then-compound simulation: every period the
// deposit is added first and the sum then earns one period of interest.
// The series is sampled so it stays chart-sized for any horizon and always
// ends on the final period.
func Project(params Params) (Result, error) {
	if err := params.validate(); err != nil {
		return Result{}, err
	}

	n := params.Cadence.PeriodsPerYear()
	periods := params.Years * n
	months := params.Years * 12

	next := nextDeposit(params.GoalAmount, months, params.Cadence)
	if !finite(next) {
		return Result{}, fmt.Errorf("%w: goal amount too large to project", ErrInvalidParams)
	}

	result := Result{
		Series:      []Point{},
		NextDeposit: next,
		Months:      months,
	}
	if params.Amount == 0 || periods == 0 {
		return result, nil
	}

	growth := 1 + params.Rate/float64(n)
	stride := max(1, periods/maxPoints)

	var total, deposited float64
	for period := 1; period <= periods; period++ {
		deposited = float64(period) * params.Amount
		if params.Rate == 0 {
			total = deposited
		} else {
			total = (total + params.Amount) * growth
		}

		if period%stride == 0 || period == periods {
			result.Series = append(result.Series, Point{
				Period:    period,
				Week:      chartWeek(period, params.Cadence),
				Total:     total,
				Deposited: deposited,
			})
		}
	}

	if !finite(total) || !finite(deposited) {
		return Result{}, fmt.Errorf("%w: amount or rate too large to project", ErrInvalidParams)
	}

	result.Total = total
	result.Deposited = deposited
	result.InterestEarned = math.Round(total - deposited)

	return result, nil
}

// nextDeposit is a flat amortization of the goal over the horizon. It does
// not account for interest.
func nextDeposit(goal float64, months int, cadence Cadence) float64 {
	if months == 0 {
		return 0
	}
	monthly := goal / float64(months)
	if cadence == Weekly {
		return monthly / weeksPerMonth
	}
	return monthly
}

func chartWeek(period int, cadence Cadence) float64 {
	if cadence == Monthly {
		return float64(period) * weeksPerMonth
	}
	return float64(period)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
