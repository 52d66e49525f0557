package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

const (
	defaultWeightLimit = 90
	maxWeightLimit     = 1000
)

type WeightService struct {
	weights ports.WeightRepository
	users   ports.UserRepository
	loc     *time.Location
	now     func() time.Time
}

func NewWeightService(weights ports.WeightRepository, users ports.UserRepository, loc *time.Location) *WeightService {
	if loc == nil {
		loc = time.UTC
	}
	return &WeightService{weights: weights, users: users, loc: loc, now: time.Now}
}

type WeightDTO struct {
	ID         string    `json:"id"`
	WeightKg   float64   `json:"weightKg"`
	RecordedOn string    `json:"recordedOn"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type WeightSummaryDTO struct {
	Entries      int        `json:"entries"`
	First        *WeightDTO `json:"first"`
	Latest       *WeightDTO `json:"latest"`
	DeltaKg      float64    `json:"deltaKg"`
	GoalWeightKg float64    `json:"goalWeightKg,omitempty"`
	RemainingKg  float64    `json:"remainingKg,omitempty"`
}

type WeightInput struct {
	WeightKg float64 `json:"weightKg" validate:"gte=20,lte=400"`
	// RecordedOn au format 2006-01-02 ; vide = aujourd'hui (fuseau de référence).
	RecordedOn string `json:"recordedOn" validate:"omitempty,datetime=2006-01-02"`
	Note       string `json:"note" validate:"max=500"`
}

func toWeightDTO(e domain.WeightEntry) WeightDTO {
	return WeightDTO{
		ID:         e.ID,
		WeightKg:   e.WeightKg,
		RecordedOn: e.RecordedOn.Format(domain.DateLayout),
		Note:       e.Note,
		CreatedAt:  e.CreatedAt,
	}
}

func (s *WeightService) List(ctx context.Context, id domain.Identity, limit int) ([]WeightDTO, error) {
	if limit <= 0 {
		limit = defaultWeightLimit
	}
	if limit > maxWeightLimit {
		limit = maxWeightLimit
	}
	entries, err := s.weights.List(ctx, id.UserID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]WeightDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toWeightDTO(e))
	}
	return out, nil
}

// Record enregistre la pesée du jour ; une seconde pesée le même jour la remplace.
func (s *WeightService) Record(ctx context.Context, id domain.Identity, in WeightInput) (WeightDTO, error) {
	in.RecordedOn = strings.TrimSpace(in.RecordedOn)
	in.Note = strings.TrimSpace(in.Note)
	if err := validateInput(in); err != nil {
		return WeightDTO{}, err
	}

	now := s.now()
	day := domain.CalendarDate(now.In(s.loc))
	if in.RecordedOn != "" {
		parsed, err := time.Parse(domain.DateLayout, in.RecordedOn)
		if err != nil {
			return WeightDTO{}, &InputError{Fields: map[string]string{"recordedOn": "datetime=" + domain.DateLayout}, Err: err}
		}
		day = parsed
	}
	if day.After(domain.CalendarDate(now.In(s.loc))) {
		return WeightDTO{}, invalidInput("recordedOn is in the future")
	}

	e, err := s.weights.Upsert(ctx, domain.WeightEntry{
		ID:         xid.New().String(),
		UserID:     id.UserID,
		WeightKg:   in.WeightKg,
		RecordedOn: day,
		Note:       in.Note,
		CreatedAt:  now.UTC(),
	})
	if err != nil {
		return WeightDTO{}, err
	}
	return toWeightDTO(e), nil
}

func (s *WeightService) Delete(ctx context.Context, id domain.Identity, entryID string) error {
	return s.weights.Delete(ctx, id.UserID, entryID)
}

func (s *WeightService) Summary(ctx context.Context, id domain.Identity) (WeightSummaryDTO, error) {
	entries, err := s.weights.List(ctx, id.UserID, 0)
	if err != nil {
		return WeightSummaryDTO{}, err
	}
	goal := 0.0
	if p, err := s.users.GetProfile(ctx, id.UserID); err == nil {
		goal = p.GoalWeightKg
	} else if !errors.Is(err, ports.ErrNotFound) {
		return WeightSummaryDTO{}, err
	}

	sum := domain.SummarizeWeights(entries, goal)
	out := WeightSummaryDTO{
		Entries:      sum.Entries,
		DeltaKg:      sum.DeltaKg,
		GoalWeightKg: sum.GoalWeightKg,
		RemainingKg:  sum.RemainingKg,
	}
	if sum.First != nil {
		first := toWeightDTO(*sum.First)
		out.First = &first
	}
	if sum.Latest != nil {
		latest := toWeightDTO(*sum.Latest)
		out.Latest = &latest
	}
	return out, nil
}
