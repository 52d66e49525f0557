package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

type ProgressService struct {
	progress ports.ProgressRepository
	courses  ports.CourseRepository
	bus      ports.EventBus
	now      func() time.Time
}

func NewProgressService(progress ports.ProgressRepository, courses ports.CourseRepository, bus ports.EventBus) *ProgressService {
	return &ProgressService{progress: progress, courses: courses, bus: bus, now: time.Now}
}

type ProgressDTO struct {
	CourseID           string    `json:"courseId"`
	CompletedLessons   int       `json:"completedLessons"`
	TotalLessons       int       `json:"totalLessons"`
	Percent            int       `json:"percent"`
	CompletedLessonIDs []string  `json:"completedLessonIds,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func toProgressDTO(p domain.CourseProgress) ProgressDTO {
	return ProgressDTO{
		CourseID:         p.CourseID,
		CompletedLessons: p.CompletedLessons,
		TotalLessons:     p.TotalLessons,
		Percent:          p.Percent(),
		UpdatedAt:        p.UpdatedAt,
	}
}

// LessonEvent est le payload de lesson.completed / lesson.uncompleted.
type LessonEvent struct {
	UserID   string    `json:"userId"`
	LessonID string    `json:"lessonId"`
	CourseID string    `json:"courseId"`
	At       time.Time `json:"at"`
}

func (s *ProgressService) Complete(ctx context.Context, id domain.Identity, lessonID string) (LessonEvent, error) {
	l, err := s.courses.GetLesson(ctx, lessonID)
	if err != nil {
		return LessonEvent{}, err
	}
	// Une leçon d'un cours en brouillon n'existe pas côté membre.
	c, err := s.courses.Get(ctx, l.CourseID)
	if err != nil {
		return LessonEvent{}, err
	}
	if !c.IsPublished {
		return LessonEvent{}, ErrNotFound
	}
	now := s.now().UTC()
	err = s.progress.Complete(ctx, domain.LessonCompletion{
		UserID:      id.UserID,
		LessonID:    l.ID,
		CourseID:    l.CourseID,
		CompletedAt: now,
	})
	if err != nil {
		return LessonEvent{}, err
	}
	evt := LessonEvent{UserID: id.UserID, LessonID: l.ID, CourseID: l.CourseID, At: now}
	publish(s.bus, ports.TopicLessonCompleted, evt)
	return evt, nil
}

func (s *ProgressService) Uncomplete(ctx context.Context, id domain.Identity, lessonID string) error {
	l, err := s.courses.GetLesson(ctx, lessonID)
	if err != nil {
		return err
	}
	if err := s.progress.Uncomplete(ctx, id.UserID, l.ID); err != nil {
		return err
	}
	publish(s.bus, ports.TopicLessonUncompleted, LessonEvent{UserID: id.UserID, LessonID: l.ID, CourseID: l.CourseID, At: s.now().UTC()})
	return nil
}

// List lit les agrégats maintenus par ProgressUpdater.
func (s *ProgressService) List(ctx context.Context, id domain.Identity) ([]ProgressDTO, error) {
	items, err := s.progress.ListProgress(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]ProgressDTO, 0, len(items))
	for _, p := range items {
		out = append(out, toProgressDTO(p))
	}
	return out, nil
}

// ForCourse calcule la progression à la volée, avec la liste des leçons terminées.
// Même visibilité que CourseService.GetBySlug.
func (s *ProgressService) ForCourse(ctx context.Context, id domain.Identity, slug string, includeDrafts bool) (ProgressDTO, error) {
	c, err := s.courses.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return ProgressDTO{}, err
	}
	if !c.IsPublished && !includeDrafts {
		return ProgressDTO{}, ErrNotFound
	}
	total, err := s.courses.CountLessons(ctx, c.ID)
	if err != nil {
		return ProgressDTO{}, err
	}
	ids, err := s.progress.CompletedLessonIDs(ctx, id.UserID, c.ID)
	if err != nil {
		return ProgressDTO{}, err
	}
	dto := toProgressDTO(domain.CourseProgress{
		UserID:           id.UserID,
		CourseID:         c.ID,
		CompletedLessons: len(ids),
		TotalLessons:     total,
	})
	dto.CompletedLessonIDs = ids
	if stored, err := s.progress.GetProgress(ctx, id.UserID, c.ID); err == nil {
		dto.UpdatedAt = stored.UpdatedAt
	} else if !errors.Is(err, ports.ErrNotFound) {
		return ProgressDTO{}, err
	}
	return dto, nil
}

// Recompute réécrit l'agrégat (user, course) à partir des complétions.
func (s *ProgressService) Recompute(ctx context.Context, userID, courseID string) (ProgressDTO, error) {
	total, err := s.courses.CountLessons(ctx, courseID)
	if err != nil {
		return ProgressDTO{}, err
	}
	done, err := s.progress.CountCompleted(ctx, userID, courseID)
	if err != nil {
		return ProgressDTO{}, err
	}
	p, err := s.progress.PutProgress(ctx, domain.CourseProgress{
		UserID:           userID,
		CourseID:         courseID,
		CompletedLessons: done,
		TotalLessons:     total,
		UpdatedAt:        s.now().UTC(),
	})
	if err != nil {
		return ProgressDTO{}, err
	}
	return toProgressDTO(p), nil
}

// RecomputeCourse recalcule les agrégats de tous les membres ayant une trace sur
// le cours ; appelé quand le nombre de leçons change.
func (s *ProgressService) RecomputeCourse(ctx context.Context, courseID string) (int, error) {
	users, err := s.progress.UsersWithProgress(ctx, courseID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, userID := range users {
		if _, err := s.Recompute(ctx, userID, courseID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
