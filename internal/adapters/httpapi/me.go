package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rogerbox/rogerbox/internal/app"
	"github.com/rogerbox/rogerbox/internal/httpjson"
)

// MeHandler sert les ressources du membre connecté : profil, progression, pesées.
type MeHandler struct {
	profile  *app.ProfileService
	progress *app.ProgressService
	weights  *app.WeightService
}

func NewMeHandler(profile *app.ProfileService, progress *app.ProgressService, weights *app.WeightService) *MeHandler {
	return &MeHandler{profile: profile, progress: progress, weights: weights}
}

func (h *MeHandler) Routes(r chi.Router) {
	r.Route("/me", func(r chi.Router) {
		if h.profile != nil {
			r.Get("/", h.getProfile)
			r.Put("/", h.putProfile)
		}
		if h.progress != nil {
			r.Get("/progress", h.listProgress)
		}
		if h.weights != nil {
			r.Get("/weights", h.listWeights)
			r.Post("/weights", h.recordWeight)
			r.Get("/weights/summary", h.weightSummary)
			r.Delete("/weights/{id}", h.deleteWeight)
		}
	})
}

func (h *MeHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profile.Get(r.Context(), identity(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, p)
}

func (h *MeHandler) putProfile(w http.ResponseWriter, r *http.Request) {
	var in app.ProfileInput
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := h.profile.Update(r.Context(), identity(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, p)
}

func (h *MeHandler) listProgress(w http.ResponseWriter, r *http.Request) {
	items, err := h.progress.List(r.Context(), identity(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, items)
}

func (h *MeHandler) listWeights(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	items, err := h.weights.List(r.Context(), identity(r), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, items)
}

func (h *MeHandler) recordWeight(w http.ResponseWriter, r *http.Request) {
	var in app.WeightInput
	if !decodeBody(w, r, &in) {
		return
	}
	entry, err := h.weights.Record(r.Context(), identity(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, entry)
}

func (h *MeHandler) weightSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.weights.Summary(r.Context(), identity(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, sum)
}

func (h *MeHandler) deleteWeight(w http.ResponseWriter, r *http.Request) {
	if err := h.weights.Delete(r.Context(), identity(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
