package handler

import (
	"net/http"

	"github.com/compoundjoy/server/internal/repository"
	"github.com/compoundjoy/server/internal/service"
	"github.com/shopspring/decimal"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort")
	switch sortBy {
	case "":
		sortBy = repository.GoalSortRecent
	case repository.GoalSortRecent, repository.GoalSortProgress, repository.GoalSortName:
	default:
		writeError(w, http.StatusBadRequest, "sort must be one of recent, progress, name")
		return
	}

	goals, err := h.goalService.Goals(r.Context(), sortBy)
	if err != nil {
		handleError(w, r, err, "failed to list goals")
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.GoalInput
	if !decodeJSON(w, r, &input) {
		return
	}

	goal, err := h.goalService.Create(r.Context(), input)
	if err != nil {
		handleError(w, r, err, "failed to create goal")
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Show(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.Goal(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to get goal")
		return
	}
	if goal == nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.goalService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to delete goal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type contributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

func (h *GoalHandler) AddContribution(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	contribution, err := h.goalService.AddContribution(r.Context(), r.PathValue("id"), req.Amount, req.Note)
	if err != nil {
		handleError(w, r, err, "failed to add contribution")
		return
	}

	writeJSON(w, http.StatusCreated, contribution)
}

func (h *GoalHandler) Contributions(w http.ResponseWriter, r *http.Request) {
	contributions, err := h.goalService.Contributions(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to list contributions")
		return
	}

	writeJSON(w, http.StatusOK, contributions)
}
