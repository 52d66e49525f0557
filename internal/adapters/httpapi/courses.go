package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rogerbox/rogerbox/internal/app"
	"github.com/rogerbox/rogerbox/internal/httpjson"
)

type CoursesHandler struct {
	courses  *app.CourseService
	progress *app.ProgressService
	policy   app.AuthorizationPolicy
}

func NewCoursesHandler(courses *app.CourseService, progress *app.ProgressService, policy app.AuthorizationPolicy) *CoursesHandler {
	return &CoursesHandler{courses: courses, progress: progress, policy: policy}
}

func (h *CoursesHandler) Routes(r chi.Router) {
	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.listPublished)
		r.Get("/{slug}", h.getBySlug)
		if h.progress != nil {
			r.Get("/{slug}/progress", h.progressForCourse)
		}
	})
}

// AdminRoutes est monté sous /admin.
func (h *CoursesHandler) AdminRoutes(r chi.Router) {
	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.listAll)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/lessons", h.createLesson)
	})
	r.Route("/lessons", func(r chi.Router) {
		r.Put("/{id}", h.updateLesson)
		r.Delete("/{id}", h.deleteLesson)
	})
}

func (h *CoursesHandler) listPublished(w http.ResponseWriter, r *http.Request) {
	items, err := h.courses.ListPublished(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, items)
}

// Les brouillons ne sont visibles que des admins ; sinon 404.
func (h *CoursesHandler) includeDrafts(r *http.Request) bool {
	return h.policy != nil && h.policy.IsAdmin(identity(r))
}

func (h *CoursesHandler) getBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.courses.GetBySlug(r.Context(), chi.URLParam(r, "slug"), h.includeDrafts(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, c)
}

func (h *CoursesHandler) progressForCourse(w http.ResponseWriter, r *http.Request) {
	p, err := h.progress.ForCourse(r.Context(), identity(r), chi.URLParam(r, "slug"), h.includeDrafts(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, p)
}

func (h *CoursesHandler) listAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.courses.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, items)
}

func (h *CoursesHandler) create(w http.ResponseWriter, r *http.Request) {
	var in app.CourseInput
	if !decodeBody(w, r, &in) {
		return
	}
	c, err := h.courses.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, c)
}

func (h *CoursesHandler) update(w http.ResponseWriter, r *http.Request) {
	var in app.CourseInput
	if !decodeBody(w, r, &in) {
		return
	}
	c, err := h.courses.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, c)
}

func (h *CoursesHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.courses.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CoursesHandler) createLesson(w http.ResponseWriter, r *http.Request) {
	var in app.LessonInput
	if !decodeBody(w, r, &in) {
		return
	}
	l, err := h.courses.CreateLesson(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, l)
}

func (h *CoursesHandler) updateLesson(w http.ResponseWriter, r *http.Request) {
	var in app.LessonInput
	if !decodeBody(w, r, &in) {
		return
	}
	l, err := h.courses.UpdateLesson(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, l)
}

func (h *CoursesHandler) deleteLesson(w http.ResponseWriter, r *http.Request) {
	if err := h.courses.DeleteLesson(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type LessonsHandler struct {
	progress *app.ProgressService
}

func NewLessonsHandler(progress *app.ProgressService) *LessonsHandler {
	return &LessonsHandler{progress: progress}
}

func (h *LessonsHandler) Routes(r chi.Router) {
	r.Post("/lessons/{id}/complete", h.complete)
	r.Delete("/lessons/{id}/complete", h.uncomplete)
}

func (h *LessonsHandler) complete(w http.ResponseWriter, r *http.Request) {
	ev, err := h.progress.Complete(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, ev)
}

func (h *LessonsHandler) uncomplete(w http.ResponseWriter, r *http.Request) {
	if err := h.progress.Uncomplete(r.Context(), identity(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
