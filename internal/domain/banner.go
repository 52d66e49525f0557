package domain

import "time"

type Banner struct {
	ID       string
	Title    string
	ImageURL string
	LinkURL  string
	Position int
	IsActive bool
	// StartsAt / EndsAt : zéro = borne ouverte.
	StartsAt time.Time
	EndsAt   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b Banner) VisibleAt(now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if !b.StartsAt.IsZero() && now.Before(b.StartsAt) {
		return false
	}
	if !b.EndsAt.IsZero() && !now.Before(b.EndsAt) {
		return false
	}
	return true
}

// Stats alimente le tableau de bord admin.
type Stats struct {
	Users                int `json:"users"`
	PublishedCourses     int `json:"publishedCourses"`
	Lessons              int `json:"lessons"`
	Complements          int `json:"complements"`
	PublishedComplements int `json:"publishedComplements"`
	Completions          int `json:"completions"`
	WeightEntries        int `json:"weightEntries"`
}
