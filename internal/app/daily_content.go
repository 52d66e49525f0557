package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

// Issues d'une résolution, reprises en label de métrique.
const (
	LookupFound    = "found"
	LookupNotFound = "not_found"
	LookupError    = "error"
)

const reasonNotFound = "not found"

// DailyContentObserver reçoit l'issue de chaque résolution (métriques).
type DailyContentObserver interface {
	ObserveDailyLookup(outcome string, weekend bool)
}

// TodayContent est la réponse de GET /complements/today.
// DayOfWeek est le jour réel ; TargetDay le jour réellement interrogé (5 le week-end).
type TodayContent struct {
	Item       *ComplementDTO `json:"item"`
	IsWeekend  bool           `json:"isWeekend"`
	DayOfWeek  int            `json:"dayOfWeek"`
	WeekNumber int            `json:"weekNumber"`
	Year       int            `json:"year"`
	TargetDay  int            `json:"targetDay"`
	Reason     string         `json:"reason,omitempty"`
}

// DailyContentScheduler résout le complément du jour. Sans état partagé :
// une requête au store par appel, pas de cache, pas de retry.
type DailyContentScheduler struct {
	logger   zerolog.Logger
	store    ports.ComplementRepository
	loc      *time.Location
	observer DailyContentObserver
}

func NewDailyContentScheduler(logger zerolog.Logger, store ports.ComplementRepository, loc *time.Location) *DailyContentScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &DailyContentScheduler{
		logger: logger.With().Str("component", "daily_content").Logger(),
		store:  store,
		loc:    loc,
	}
}

// WithObserver branche un observateur (optionnel).
func (s *DailyContentScheduler) WithObserver(o DailyContentObserver) *DailyContentScheduler {
	s.observer = o
	return s
}

// ResolveToday calcule le slot de now dans le fuseau de référence, applique le repli
// du week-end sur le vendredi et cherche le complément publié correspondant.
// L'absence de contenu n'est pas une erreur : Item est nil et Reason renseignée.
func (s *DailyContentScheduler) ResolveToday(ctx context.Context, now time.Time) (TodayContent, error) {
	slot := domain.SlotAt(now.In(s.loc))
	target := slot.WithWeekendFallback()

	out := TodayContent{
		IsWeekend:  slot.IsWeekend(),
		DayOfWeek:  slot.DayOfWeek,
		WeekNumber: slot.WeekNumber,
		Year:       slot.Year,
		TargetDay:  target.DayOfWeek,
	}
	item, reason, err := s.lookup(ctx, target, out.IsWeekend)
	if err != nil {
		return out, err
	}
	out.Item = item
	out.Reason = reason
	return out, nil
}

// ResolveSlot interroge un slot explicite (aperçu admin), sans repli du week-end.
func (s *DailyContentScheduler) ResolveSlot(ctx context.Context, slot domain.ContentSlot) (TodayContent, error) {
	if err := slot.Validate(); err != nil {
		return TodayContent{}, err
	}
	out := TodayContent{
		IsWeekend:  slot.IsWeekend(),
		DayOfWeek:  slot.DayOfWeek,
		WeekNumber: slot.WeekNumber,
		Year:       slot.Year,
		TargetDay:  slot.DayOfWeek,
	}
	item, reason, err := s.lookup(ctx, slot, out.IsWeekend)
	if err != nil {
		return out, err
	}
	out.Item = item
	out.Reason = reason
	return out, nil
}

func (s *DailyContentScheduler) lookup(ctx context.Context, slot domain.ContentSlot, weekend bool) (*ComplementDTO, string, error) {
	c, err := s.store.FindPublished(ctx, slot)
	switch {
	case err == nil:
		s.observe(LookupFound, weekend)
		dto := toComplementDTO(c)
		return &dto, "", nil
	case errors.Is(err, ports.ErrNotFound):
		s.observe(LookupNotFound, weekend)
		return nil, reasonNotFound, nil
	default:
		s.observe(LookupError, weekend)
		s.logger.Error().Err(err).
			Int("week", slot.WeekNumber).
			Int("year", slot.Year).
			Int("day", slot.DayOfWeek).
			Msg("complement lookup failed")
		return nil, "", fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
}

func (s *DailyContentScheduler) observe(outcome string, weekend bool) {
	if s.observer != nil {
		s.observer.ObserveDailyLookup(outcome, weekend)
	}
}
