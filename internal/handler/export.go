package handler

import (
	"fmt"
	"net/http"

	"github.com/compoundjoy/server/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Download streams the caller's ledger as a JSON attachment.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	export, err := h.exportService.Snapshot(r.Context())
	if err != nil {
		handleError(w, r, err, "failed to export ledger")
		return
	}

	filename := fmt.Sprintf("compoundjoy-export-%s.json", export.ExportedAt.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	writeJSON(w, http.StatusOK, export)
}

func (h *ExportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	url, err := h.exportService.Archive(r.Context())
	if err != nil {
		handleError(w, r, err, "failed to archive ledger")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
