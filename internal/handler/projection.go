package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/compoundjoy/server/internal/projection"
)

// Calculator defaults for a request that omits a parameter.
const (
	defaultDeposit = 25
	defaultYears   = 3
	defaultGoal    = 1000
	defaultRate    = 0.07
)

type ProjectionHandler struct {
	targets []projection.Target
}

func NewProjectionHandler(targets []projection.Target) *ProjectionHandler {
	return &ProjectionHandler{targets: targets}
}

type projectionLabels struct {
	Total          string `json:"total"`
	Deposited      string `json:"deposited"`
	InterestEarned string `json:"interest_earned"`
	NextDeposit    string `json:"next_deposit"`
}

type projectionResponse struct {
	projection.Result
	Cadence    projection.Cadence  `json:"cadence"`
	Labels     projectionLabels    `json:"labels"`
	Affordable []projection.Target `json:"affordable"`
}

func (h *ProjectionHandler) Project(w http.ResponseWriter, r *http.Request) {
	params, err := parseProjectionParams(r.URL.Query())
	if err != nil {
		handleError(w, r, err, "invalid projection parameters")
		return
	}

	result, err := projection.Project(params)
	if err != nil {
		handleError(w, r, err, "projection failed")
		return
	}

	writeJSON(w, http.StatusOK, projectionResponse{
		Result:  result,
		Cadence: params.Cadence,
		Labels: projectionLabels{
			Total:          projection.FormatDollars(result.Total),
			Deposited:      projection.FormatDollars(result.Deposited),
			InterestEarned: projection.FormatDollars(result.InterestEarned),
			NextDeposit:    projection.FormatDollars(result.NextDeposit),
		},
		Affordable: projection.Affordable(result.Total, h.targets),
	})
}

func parseProjectionParams(q url.Values) (projection.Params, error) {
	params := projection.Params{
		Amount:     defaultDeposit,
		Cadence:    projection.Weekly,
		Years:      defaultYears,
		Rate:       defaultRate,
		GoalAmount: defaultGoal,
	}

	if v := q.Get("cadence"); v != "" {
		cadence, err := projection.ParseCadence(v)
		if err != nil {
			return params, err
		}
		params.Cadence = cadence
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"amount", &params.Amount},
		{"rate", &params.Rate},
		{"goal", &params.GoalAmount},
	}
	for _, f := range floats {
		v := q.Get(f.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, fmt.Errorf("%w: %s must be a number", projection.ErrInvalidParams, f.key)
		}
		*f.dst = parsed
	}

	if v := q.Get("years"); v != "" {
		years, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("%w: years must be a whole number", projection.ErrInvalidParams)
		}
		params.Years = years
	}

	return params, nil
}
