package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	Friday   = 5
	Saturday = 6

	MinYear = 2000
	MaxYear = 2100
)

var ErrInvalidSlot = errors.New("invalid content slot")

// ContentSlot identifie le contenu d'un jour.
type ContentSlot struct {
	WeekNumber int `json:"weekNumber"`
	Year       int `json:"year"`
	DayOfWeek  int `json:"dayOfWeek"`
}

func (s ContentSlot) Validate() error {
	if s.WeekNumber < 1 || s.WeekNumber > 53 {
		return fmt.Errorf("%w: weekNumber %d out of range [1,53]", ErrInvalidSlot, s.WeekNumber)
	}
	if s.Year < MinYear || s.Year > MaxYear {
		return fmt.Errorf("%w: year %d out of range [%d,%d]", ErrInvalidSlot, s.Year, MinYear, MaxYear)
	}
	if s.DayOfWeek < 1 || s.DayOfWeek > 7 {
		return fmt.Errorf("%w: dayOfWeek %d out of range [1,7]", ErrInvalidSlot, s.DayOfWeek)
	}
	return nil
}

func (s ContentSlot) IsWeekend() bool {
	return s.DayOfWeek >= Saturday
}

// WithWeekendFallback renvoie le slot réellement servi : le week-end, on sert le vendredi.
func (s ContentSlot) WithWeekendFallback() ContentSlot {
	if s.IsWeekend() {
		s.DayOfWeek = Friday
	}
	return s
}

// Complement est un contenu (vidéo) programmé sur un jour d'une semaine ISO.
type Complement struct {
	ID string

	ContentSlot

	Title           string
	Description     string
	VideoURL        string
	ThumbnailURL    string
	DurationSeconds int

	IsPublished bool
	// PublishAt est optionnel (zéro = publication manuelle).
	PublishAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDue indique si le complément doit être publié automatiquement à now.
func (c Complement) IsDue(now time.Time) bool {
	return !c.IsPublished && !c.PublishAt.IsZero() && !c.PublishAt.After(now)
}
