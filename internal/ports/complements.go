package ports

import (
	"context"
	"time"

	"github.com/rogerbox/rogerbox/internal/domain"
)

type ComplementRepository interface {
	// FindPublished renvoie le complément publié du slot exact, ou ErrNotFound.
	FindPublished(ctx context.Context, slot domain.ContentSlot) (domain.Complement, error)

	Create(ctx context.Context, c domain.Complement) (domain.Complement, error)
	Get(ctx context.Context, id string) (domain.Complement, error)
	// List filtre sur year/week quand ils sont > 0.
	List(ctx context.Context, year, week int) ([]domain.Complement, error)
	Update(ctx context.Context, c domain.Complement) (domain.Complement, error)
	Delete(ctx context.Context, id string) error

	// Due renvoie les compléments non publiés dont publishAt <= now.
	Due(ctx context.Context, now time.Time, limit int) ([]domain.Complement, error)
	// MarkPublished publie le complément s'il ne l'est pas déjà ; renvoie false s'il l'était.
	MarkPublished(ctx context.Context, id string, at time.Time) (bool, error)
}
