package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

// ComplementService gère la saisie des compléments (back office).
type ComplementService struct {
	repo ports.ComplementRepository
	bus  ports.EventBus
	now  func() time.Time
}

func NewComplementService(repo ports.ComplementRepository, bus ports.EventBus) *ComplementService {
	return &ComplementService{repo: repo, bus: bus, now: time.Now}
}

type ComplementInput struct {
	WeekNumber      int        `json:"weekNumber" validate:"min=1,max=53"`
	Year            int        `json:"year" validate:"min=2000,max=2100"`
	DayOfWeek       int        `json:"dayOfWeek" validate:"min=1,max=7"`
	Title           string     `json:"title" validate:"required,max=200"`
	Description     string     `json:"description" validate:"max=5000"`
	VideoURL        string     `json:"videoUrl" validate:"required,url"`
	ThumbnailURL    string     `json:"thumbnailUrl" validate:"omitempty,url"`
	DurationSeconds int        `json:"durationSeconds" validate:"min=0"`
	IsPublished     bool       `json:"isPublished"`
	PublishAt       *time.Time `json:"publishAt"`
}

func (in ComplementInput) slot() domain.ContentSlot {
	return domain.ContentSlot{WeekNumber: in.WeekNumber, Year: in.Year, DayOfWeek: in.DayOfWeek}
}

func (in *ComplementInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.VideoURL = strings.TrimSpace(in.VideoURL)
	in.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
}

func (in ComplementInput) check() error {
	// Slot validé en premier (ErrInvalidSlot).
	if err := in.slot().Validate(); err != nil {
		return err
	}
	return validateInput(in)
}

func (s *ComplementService) List(ctx context.Context, year, week int) ([]ComplementDTO, error) {
	items, err := s.repo.List(ctx, year, week)
	if err != nil {
		return nil, err
	}
	out := make([]ComplementDTO, 0, len(items))
	for _, c := range items {
		out = append(out, toComplementDTO(c))
	}
	return out, nil
}

func (s *ComplementService) Get(ctx context.Context, id string) (ComplementDTO, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return ComplementDTO{}, err
	}
	return toComplementDTO(c), nil
}

func (s *ComplementService) Create(ctx context.Context, in ComplementInput) (ComplementDTO, error) {
	in.normalize()
	if err := in.check(); err != nil {
		return ComplementDTO{}, err
	}

	now := s.now().UTC()
	c := domain.Complement{
		ID:              xid.New().String(),
		ContentSlot:     in.slot(),
		Title:           in.Title,
		Description:     in.Description,
		VideoURL:        in.VideoURL,
		ThumbnailURL:    in.ThumbnailURL,
		DurationSeconds: in.DurationSeconds,
		IsPublished:     in.IsPublished,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.PublishAt != nil {
		c.PublishAt = in.PublishAt.UTC()
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return ComplementDTO{}, err
	}
	dto := toComplementDTO(created)
	if created.IsPublished {
		publish(s.bus, ports.TopicComplementPublished, dto)
	}
	return dto, nil
}

func (s *ComplementService) Update(ctx context.Context, id string, in ComplementInput) (ComplementDTO, error) {
	in.normalize()
	if err := in.check(); err != nil {
		return ComplementDTO{}, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return ComplementDTO{}, err
	}
	wasPublished := existing.IsPublished

	existing.ContentSlot = in.slot()
	existing.Title = in.Title
	existing.Description = in.Description
	existing.VideoURL = in.VideoURL
	existing.ThumbnailURL = in.ThumbnailURL
	existing.DurationSeconds = in.DurationSeconds
	existing.IsPublished = in.IsPublished
	existing.PublishAt = time.Time{}
	if in.PublishAt != nil {
		existing.PublishAt = in.PublishAt.UTC()
	}
	existing.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return ComplementDTO{}, err
	}
	dto := toComplementDTO(updated)
	if updated.IsPublished && !wasPublished {
		publish(s.bus, ports.TopicComplementPublished, dto)
	}
	return dto, nil
}

func (s *ComplementService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// PublishDue publie les compléments dont publishAt est passé et renvoie ceux
// effectivement publiés par cet appel.
func (s *ComplementService) PublishDue(ctx context.Context, now time.Time, limit int) ([]ComplementDTO, error) {
	due, err := s.repo.Due(ctx, now, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ComplementDTO, 0, len(due))
	for _, c := range due {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		ok, err := s.repo.MarkPublished(ctx, c.ID, now)
		if err != nil {
			return out, err
		}
		if !ok {
			// Déjà publié entre-temps (autre instance ou saisie manuelle).
			continue
		}
		c.IsPublished = true
		c.UpdatedAt = now
		dto := toComplementDTO(c)
		publish(s.bus, ports.TopicComplementPublished, dto)
		out = append(out, dto)
	}
	return out, nil
}
