package domain

import "time"

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

type Course struct {
	ID          string
	Slug        string
	Title       string
	Description string
	Level       CourseLevel
	CoverURL    string
	IsPublished bool
	Position    int

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Lesson struct {
	ID              string
	CourseID        string
	Title           string
	VideoURL        string
	DurationSeconds int
	Position        int

	CreatedAt time.Time
	UpdatedAt time.Time
}

type LessonCompletion struct {
	UserID      string
	LessonID    string
	CourseID    string
	CompletedAt time.Time
}

// CourseProgress est l'agrégat dérivé des LessonCompletion d'un utilisateur sur un cours.
type CourseProgress struct {
	UserID           string
	CourseID         string
	CompletedLessons int
	TotalLessons     int
	UpdatedAt        time.Time
}

// Percent renvoie l'avancement entier (0..100).
func (p CourseProgress) Percent() int {
	if p.TotalLessons <= 0 {
		return 0
	}
	done := p.CompletedLessons
	if done > p.TotalLessons {
		done = p.TotalLessons
	}
	return done * 100 / p.TotalLessons
}
