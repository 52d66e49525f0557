package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rogerbox/rogerbox/internal/app"
	"github.com/rogerbox/rogerbox/internal/httpjson"
)

type AuthHandler struct {
	auth *app.AuthService
}

func NewAuthHandler(auth *app.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Routes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterInput
	if !decodeBody(w, r, &in) {
		return
	}
	session, err := h.auth.Register(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, session)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var in app.LoginInput
	if !decodeBody(w, r, &in) {
		return
	}
	session, err := h.auth.Login(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, session)
}
