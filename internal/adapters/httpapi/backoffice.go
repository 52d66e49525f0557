package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rogerbox/rogerbox/internal/app"
	"github.com/rogerbox/rogerbox/internal/httpjson"
)

type BackOfficeHandler struct {
	stats   *app.StatsService
	uploads *app.UploadService
}

func NewBackOfficeHandler(stats *app.StatsService, uploads *app.UploadService) *BackOfficeHandler {
	return &BackOfficeHandler{stats: stats, uploads: uploads}
}

func (h *BackOfficeHandler) Routes(r chi.Router) {
	if h.stats != nil {
		r.Get("/stats", h.getStats)
	}
	r.Post("/uploads", h.presignUpload)
}

func (h *BackOfficeHandler) getStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, st)
}

func (h *BackOfficeHandler) presignUpload(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil || !h.uploads.Enabled() {
		writeServiceError(w, r, app.ErrUploadsDisabled)
		return
	}
	var in app.UploadInput
	if !decodeBody(w, r, &in) {
		return
	}
	up, err := h.uploads.Presign(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, up)
}
