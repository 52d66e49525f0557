package httpapi

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/rogerbox/rogerbox/internal/app"
	"github.com/rogerbox/rogerbox/internal/httpjson"
)

type validationErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeServiceError traduit les erreurs des services en statut HTTP.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var inputErr *app.InputError
	switch {
	case errors.As(err, &inputErr):
		httpjson.Write(w, http.StatusBadRequest, validationErrorBody{Error: inputErr.Error(), Fields: inputErr.Fields})
	case errors.Is(err, app.ErrInvalidSlot), errors.Is(err, app.ErrInvalidInput):
		httpjson.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrNotFound):
		httpjson.WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, app.ErrConflict):
		httpjson.WriteError(w, http.StatusConflict, "already exists")
	case errors.Is(err, app.ErrInvalidCredentials):
		httpjson.WriteError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, app.ErrForbidden):
		httpjson.WriteError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, app.ErrUploadsDisabled):
		httpjson.WriteError(w, http.StatusNotImplemented, err.Error())
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpjson.Decode(r, v); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
