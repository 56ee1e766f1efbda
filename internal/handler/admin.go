package handler

import (
	"net/http"

	"github.com/compoundjoy/server/internal/service"
)

type AdminHandler struct {
	profileService *service.ProfileService
}

func NewAdminHandler(profileService *service.ProfileService) *AdminHandler {
	return &AdminHandler{profileService: profileService}
}

func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	admin, err := h.profileService.IsAdmin(r.Context())
	if err != nil {
		handleError(w, r, err, "failed to check admin status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"is_admin": admin})
}

func (h *AdminHandler) Claim(w http.ResponseWriter, r *http.Request) {
	err := h.profileService.ClaimAdmin(r.Context())
	if err != nil {
		handleError(w, r, err, "failed to claim admin")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"is_admin": true})
}

func (h *AdminHandler) Profiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.Profiles(r.Context())
	if err != nil {
		handleError(w, r, err, "failed to list profiles")
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

type roleRequest struct {
	Role string `json:"role"`
}

func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.profileService.SetRole(r.Context(), r.PathValue("id"), req.Role)
	if err != nil {
		handleError(w, r, err, "failed to set role")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	err := h.profileService.DeleteAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to delete account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
