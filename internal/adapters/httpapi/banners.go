package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rogerbox/rogerbox/internal/app"
	"github.com/rogerbox/rogerbox/internal/httpjson"
)

type BannersHandler struct {
	banners *app.BannerService
}

func NewBannersHandler(banners *app.BannerService) *BannersHandler {
	return &BannersHandler{banners: banners}
}

func (h *BannersHandler) Routes(r chi.Router) {
	r.Get("/banners", h.visible)
}

func (h *BannersHandler) AdminRoutes(r chi.Router) {
	r.Route("/banners", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *BannersHandler) visible(w http.ResponseWriter, r *http.Request) {
	items, err := h.banners.Visible(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, items)
}

func (h *BannersHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.banners.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, items)
}

func (h *BannersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in app.BannerInput
	if !decodeBody(w, r, &in) {
		return
	}
	b, err := h.banners.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, b)
}

func (h *BannersHandler) update(w http.ResponseWriter, r *http.Request) {
	var in app.BannerInput
	if !decodeBody(w, r, &in) {
		return
	}
	b, err := h.banners.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, b)
}

func (h *BannersHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.banners.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
