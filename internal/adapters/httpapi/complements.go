package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rogerbox/rogerbox/internal/app"
	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/httpjson"
)

type TodayHandler struct {
	daily *app.DailyContentScheduler
	now   func() time.Time
}

func NewTodayHandler(daily *app.DailyContentScheduler) *TodayHandler {
	return &TodayHandler{daily: daily, now: time.Now}
}

func (h *TodayHandler) Routes(r chi.Router) {
	r.Get("/complements/today", h.today)
}

// today renvoie toujours 200 quand le store répond, item=null si rien n'est publié.
func (h *TodayHandler) today(w http.ResponseWriter, r *http.Request) {
	content, err := h.daily.ResolveToday(r.Context(), h.now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, content)
}

// ComplementsAdminHandler : édition des compléments et prévisualisation d'un slot.
type ComplementsAdminHandler struct {
	complements *app.ComplementService
	daily       *app.DailyContentScheduler
}

func NewComplementsAdminHandler(complements *app.ComplementService, daily *app.DailyContentScheduler) *ComplementsAdminHandler {
	return &ComplementsAdminHandler{complements: complements, daily: daily}
}

func (h *ComplementsAdminHandler) Routes(r chi.Router) {
	r.Route("/complements", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		if h.daily != nil {
			r.Get("/slot", h.previewSlot)
		}
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *ComplementsAdminHandler) list(w http.ResponseWriter, r *http.Request) {
	year, okYear := queryInt(r, "year", 0)
	week, okWeek := queryInt(r, "week", 0)
	if !okYear || !okWeek {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid year or week")
		return
	}
	items, err := h.complements.List(r.Context(), year, week)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, items)
}

func (h *ComplementsAdminHandler) previewSlot(w http.ResponseWriter, r *http.Request) {
	week, okWeek := queryInt(r, "week", 0)
	year, okYear := queryInt(r, "year", 0)
	day, okDay := queryInt(r, "day", 0)
	if !okWeek || !okYear || !okDay {
		httpjson.WriteError(w, http.StatusBadRequest, domain.ErrInvalidSlot.Error())
		return
	}
	content, err := h.daily.ResolveSlot(r.Context(), domain.ContentSlot{WeekNumber: week, Year: year, DayOfWeek: day})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, content)
}

func (h *ComplementsAdminHandler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.complements.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, c)
}

func (h *ComplementsAdminHandler) create(w http.ResponseWriter, r *http.Request) {
	var in app.ComplementInput
	if !decodeBody(w, r, &in) {
		return
	}
	c, err := h.complements.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, c)
}

func (h *ComplementsAdminHandler) update(w http.ResponseWriter, r *http.Request) {
	var in app.ComplementInput
	if !decodeBody(w, r, &in) {
		return
	}
	c, err := h.complements.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, c)
}

func (h *ComplementsAdminHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.complements.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
