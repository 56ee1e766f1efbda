package handler

import (
	"net/http"

	"github.com/compoundjoy/server/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.MyProfile(r.Context())
	if err != nil {
		handleError(w, r, err, "failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type profileRequest struct {
	DisplayName string `json:"display_name"`
	ImageURL    string `json:"image_url"`
	Status      string `json:"status"`
}

func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.profileService.Upsert(r.Context(), req.DisplayName, req.ImageURL, req.Status)
	if err != nil {
		handleError(w, r, err, "failed to save profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
