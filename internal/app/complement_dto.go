package app

import (
	"time"

	"github.com/rogerbox/rogerbox/internal/domain"
)

type ComplementDTO struct {
	ID string `json:"id"`

	WeekNumber int `json:"weekNumber"`
	Year       int `json:"year"`
	DayOfWeek  int `json:"dayOfWeek"`

	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	VideoURL        string `json:"videoUrl"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	DurationSeconds int    `json:"durationSeconds"`

	IsPublished bool       `json:"isPublished"`
	PublishAt   *time.Time `json:"publishAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toComplementDTO(c domain.Complement) ComplementDTO {
	dto := ComplementDTO{
		ID:              c.ID,
		WeekNumber:      c.WeekNumber,
		Year:            c.Year,
		DayOfWeek:       c.DayOfWeek,
		Title:           c.Title,
		Description:     c.Description,
		VideoURL:        c.VideoURL,
		ThumbnailURL:    c.ThumbnailURL,
		DurationSeconds: c.DurationSeconds,
		IsPublished:     c.IsPublished,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if !c.PublishAt.IsZero() {
		at := c.PublishAt
		dto.PublishAt = &at
	}
	return dto
}

func (c ComplementDTO) ContentSlot() domain.ContentSlot {
	return domain.ContentSlot{WeekNumber: c.WeekNumber, Year: c.Year, DayOfWeek: c.DayOfWeek}
}
