package auth

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/rogerbox/rogerbox/internal/httpjson"
)

// Middleware exige un Bearer token valide et injecte l'identité dans le contexte.
func Middleware(issuer *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				unauthorized(w)
				return
			}
			claims, err := issuer.Parse(token)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("rejected token")
				unauthorized(w)
				return
			}
			ctx := WithIdentity(r.Context(), claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	httpjson.WriteError(w, http.StatusUnauthorized, "unauthorized")
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	// EventSource ne sait pas poser d'en-tête : token en query pour le flux SSE uniquement.
	if strings.HasSuffix(r.URL.Path, "/events") {
		return strings.TrimSpace(r.URL.Query().Get("token"))
	}
	return ""
}
