package handler

import (
	"net/http"

	"github.com/compoundjoy/server/internal/service"
	"github.com/shopspring/decimal"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Stats(r.Context())
	if err != nil {
		handleError(w, r, err, "failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) TotalSaved(w http.ResponseWriter, r *http.Request) {
	total, err := h.statsService.TotalSaved(r.Context())
	if err != nil {
		handleError(w, r, err, "failed to compute total saved")
		return
	}

	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"total_saved": total})
}
