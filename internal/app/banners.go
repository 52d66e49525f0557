package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

type BannerService struct {
	repo ports.BannerRepository
	bus  ports.EventBus
	now  func() time.Time
}

func NewBannerService(repo ports.BannerRepository, bus ports.EventBus) *BannerService {
	return &BannerService{repo: repo, bus: bus, now: time.Now}
}

type BannerDTO struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ImageURL  string     `json:"imageUrl"`
	LinkURL   string     `json:"linkUrl,omitempty"`
	Position  int        `json:"position"`
	IsActive  bool       `json:"isActive"`
	StartsAt  *time.Time `json:"startsAt,omitempty"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type BannerInput struct {
	Title    string     `json:"title" validate:"required,max=200"`
	ImageURL string     `json:"imageUrl" validate:"required,url"`
	LinkURL  string     `json:"linkUrl" validate:"omitempty,url"`
	Position int        `json:"position" validate:"min=0"`
	IsActive bool       `json:"isActive"`
	StartsAt *time.Time `json:"startsAt"`
	EndsAt   *time.Time `json:"endsAt"`
}

func (in *BannerInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.LinkURL = strings.TrimSpace(in.LinkURL)
}

func (in BannerInput) check() error {
	if err := validateInput(in); err != nil {
		return err
	}
	if in.StartsAt != nil && in.EndsAt != nil && !in.EndsAt.After(*in.StartsAt) {
		return invalidInput("endsAt must be after startsAt")
	}
	return nil
}

func toBannerDTO(b domain.Banner) BannerDTO {
	dto := BannerDTO{
		ID:        b.ID,
		Title:     b.Title,
		ImageURL:  b.ImageURL,
		LinkURL:   b.LinkURL,
		Position:  b.Position,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if !b.StartsAt.IsZero() {
		t := b.StartsAt
		dto.StartsAt = &t
	}
	if !b.EndsAt.IsZero() {
		t := b.EndsAt
		dto.EndsAt = &t
	}
	return dto
}

func optionalTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}

// Visible renvoie les bannières actives à l'instant courant, triées par position.
func (s *BannerService) Visible(ctx context.Context) ([]BannerDTO, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]BannerDTO, 0, len(all))
	for _, b := range all {
		if b.VisibleAt(now) {
			out = append(out, toBannerDTO(b))
		}
	}
	return out, nil
}

func (s *BannerService) List(ctx context.Context) ([]BannerDTO, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BannerDTO, 0, len(all))
	for _, b := range all {
		out = append(out, toBannerDTO(b))
	}
	return out, nil
}

func (s *BannerService) Create(ctx context.Context, in BannerInput) (BannerDTO, error) {
	in.normalize()
	if err := in.check(); err != nil {
		return BannerDTO{}, err
	}
	now := s.now().UTC()
	created, err := s.repo.Create(ctx, domain.Banner{
		ID:        xid.New().String(),
		Title:     in.Title,
		ImageURL:  in.ImageURL,
		LinkURL:   in.LinkURL,
		Position:  in.Position,
		IsActive:  in.IsActive,
		StartsAt:  optionalTime(in.StartsAt),
		EndsAt:    optionalTime(in.EndsAt),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return BannerDTO{}, err
	}
	dto := toBannerDTO(created)
	publish(s.bus, ports.TopicBannerUpdated, dto)
	return dto, nil
}

func (s *BannerService) Update(ctx context.Context, id string, in BannerInput) (BannerDTO, error) {
	in.normalize()
	if err := in.check(); err != nil {
		return BannerDTO{}, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return BannerDTO{}, err
	}
	existing.Title = in.Title
	existing.ImageURL = in.ImageURL
	existing.LinkURL = in.LinkURL
	existing.Position = in.Position
	existing.IsActive = in.IsActive
	existing.StartsAt = optionalTime(in.StartsAt)
	existing.EndsAt = optionalTime(in.EndsAt)
	existing.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return BannerDTO{}, err
	}
	dto := toBannerDTO(updated)
	publish(s.bus, ports.TopicBannerUpdated, dto)
	return dto, nil
}

func (s *BannerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	publish(s.bus, ports.TopicBannerUpdated, map[string]string{"id": id, "deleted": "true"})
	return nil
}
