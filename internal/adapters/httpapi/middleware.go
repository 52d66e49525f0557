package httpapi

import (
	"net/http"

	"github.com/rogerbox/rogerbox/internal/app"
	"github.com/rogerbox/rogerbox/internal/auth"
	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/httpjson"
)

// RequireAdmin s'applique après auth.Middleware : 401 sans identité, 403 si la politique refuse.
func RequireAdmin(policy app.AuthorizationPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				httpjson.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if policy == nil || !policy.IsAdmin(id) {
				httpjson.WriteError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// identity est toujours présente derrière auth.Middleware.
func identity(r *http.Request) domain.Identity {
	id, _ := auth.IdentityFromContext(r.Context())
	return id
}
