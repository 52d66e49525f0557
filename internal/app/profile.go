package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

type ProfileService struct {
	users  ports.UserRepository
	policy AuthorizationPolicy
	now    func() time.Time
}

func NewProfileService(users ports.UserRepository, policy AuthorizationPolicy) *ProfileService {
	return &ProfileService{users: users, policy: policy, now: time.Now}
}

type ProfileDTO struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsAdmin      bool      `json:"isAdmin"`
	FullName     string    `json:"fullName"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	HeightCm     int       `json:"heightCm,omitempty"`
	GoalWeightKg float64   `json:"goalWeightKg,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ProfileInput struct {
	FullName     string  `json:"fullName" validate:"max=120"`
	AvatarURL    string  `json:"avatarUrl" validate:"omitempty,url"`
	HeightCm     int     `json:"heightCm" validate:"min=0,max=260"`
	GoalWeightKg float64 `json:"goalWeightKg" validate:"min=0,max=400"`
}

func (s *ProfileService) Get(ctx context.Context, id domain.Identity) (ProfileDTO, error) {
	u, err := s.users.Get(ctx, id.UserID)
	if err != nil {
		return ProfileDTO{}, err
	}
	p, err := s.users.GetProfile(ctx, u.ID)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			return ProfileDTO{}, err
		}
		p = domain.Profile{UserID: u.ID}
	}
	return s.toDTO(u, p), nil
}

func (s *ProfileService) Update(ctx context.Context, id domain.Identity, in ProfileInput) (ProfileDTO, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.AvatarURL = strings.TrimSpace(in.AvatarURL)
	if err := validateInput(in); err != nil {
		return ProfileDTO{}, err
	}
	u, err := s.users.Get(ctx, id.UserID)
	if err != nil {
		return ProfileDTO{}, err
	}
	p, err := s.users.PutProfile(ctx, domain.Profile{
		UserID:       u.ID,
		FullName:     in.FullName,
		AvatarURL:    in.AvatarURL,
		HeightCm:     in.HeightCm,
		GoalWeightKg: in.GoalWeightKg,
		UpdatedAt:    s.now().UTC(),
	})
	if err != nil {
		return ProfileDTO{}, err
	}
	return s.toDTO(u, p), nil
}

func (s *ProfileService) toDTO(u domain.User, p domain.Profile) ProfileDTO {
	return ProfileDTO{
		UserID:       u.ID,
		Email:        u.Email,
		Role:         string(u.Role),
		IsAdmin:      s.policy != nil && s.policy.IsAdmin(identityOf(u)),
		FullName:     p.FullName,
		AvatarURL:    p.AvatarURL,
		HeightCm:     p.HeightCm,
		GoalWeightKg: p.GoalWeightKg,
		UpdatedAt:    p.UpdatedAt,
	}
}
