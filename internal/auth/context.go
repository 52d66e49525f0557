package auth

import (
	"context"

	"github.com/rogerbox/rogerbox/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "rogerboxIdentity"

func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(domain.Identity)
	return id, ok && id.UserID != ""
}
