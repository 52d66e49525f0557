package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

type CourseService struct {
	repo  ports.CourseRepository
	cache ports.CatalogCache
	bus   ports.EventBus
	now   func() time.Time
}

func NewCourseService(repo ports.CourseRepository, cache ports.CatalogCache, bus ports.EventBus) *CourseService {
	return &CourseService{repo: repo, cache: cache, bus: bus, now: time.Now}
}

type CourseDTO struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Level       string    `json:"level"`
	CoverURL    string    `json:"coverUrl,omitempty"`
	IsPublished bool      `json:"isPublished"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type LessonDTO struct {
	ID              string `json:"id"`
	CourseID        string `json:"courseId"`
	Title           string `json:"title"`
	VideoURL        string `json:"videoUrl,omitempty"`
	DurationSeconds int    `json:"durationSeconds"`
	Position        int    `json:"position"`
}

type CourseDetailDTO struct {
	CourseDTO
	Lessons []LessonDTO `json:"lessons"`
}

func toCourseDTO(c domain.Course) CourseDTO {
	return CourseDTO{
		ID:          c.ID,
		Slug:        c.Slug,
		Title:       c.Title,
		Description: c.Description,
		Level:       string(c.Level),
		CoverURL:    c.CoverURL,
		IsPublished: c.IsPublished,
		Position:    c.Position,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toLessonDTO(l domain.Lesson) LessonDTO {
	return LessonDTO{
		ID:              l.ID,
		CourseID:        l.CourseID,
		Title:           l.Title,
		VideoURL:        l.VideoURL,
		DurationSeconds: l.DurationSeconds,
		Position:        l.Position,
	}
}

type CourseInput struct {
	Slug        string `json:"slug" validate:"omitempty,slug,max=80"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Level       string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	CoverURL    string `json:"coverUrl" validate:"omitempty,url"`
	IsPublished bool   `json:"isPublished"`
	Position    int    `json:"position" validate:"min=0"`
}

func (in *CourseInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.CoverURL = strings.TrimSpace(in.CoverURL)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = slugify(in.Title)
	}
	if in.Level == "" {
		in.Level = string(domain.LevelBeginner)
	}
}

type LessonInput struct {
	Title           string `json:"title" validate:"required,max=200"`
	VideoURL        string `json:"videoUrl" validate:"omitempty,url"`
	DurationSeconds int    `json:"durationSeconds" validate:"min=0"`
	Position        int    `json:"position" validate:"min=0"`
}

// ListPublished sert le catalogue public ; le cache est consulté puis alimenté.
func (s *CourseService) ListPublished(ctx context.Context) ([]CourseDTO, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetCourses(ctx); ok {
			return toCourseDTOs(cached), nil
		}
	}
	courses, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetCourses(ctx, courses)
	}
	return toCourseDTOs(courses), nil
}

func (s *CourseService) ListAll(ctx context.Context) ([]CourseDTO, error) {
	courses, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	return toCourseDTOs(courses), nil
}

func toCourseDTOs(courses []domain.Course) []CourseDTO {
	out := make([]CourseDTO, 0, len(courses))
	for _, c := range courses {
		out = append(out, toCourseDTO(c))
	}
	return out
}

// GetBySlug renvoie ErrNotFound pour un cours non publié si includeDrafts est faux.
func (s *CourseService) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (CourseDetailDTO, error) {
	c, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return CourseDetailDTO{}, err
	}
	if !c.IsPublished && !includeDrafts {
		return CourseDetailDTO{}, ErrNotFound
	}
	lessons, err := s.repo.ListLessons(ctx, c.ID)
	if err != nil {
		return CourseDetailDTO{}, err
	}
	out := CourseDetailDTO{CourseDTO: toCourseDTO(c), Lessons: make([]LessonDTO, 0, len(lessons))}
	for _, l := range lessons {
		out.Lessons = append(out.Lessons, toLessonDTO(l))
	}
	return out, nil
}

func (s *CourseService) Create(ctx context.Context, in CourseInput) (CourseDTO, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return CourseDTO{}, err
	}
	now := s.now().UTC()
	created, err := s.repo.Create(ctx, domain.Course{
		ID:          xid.New().String(),
		Slug:        in.Slug,
		Title:       in.Title,
		Description: in.Description,
		Level:       domain.CourseLevel(in.Level),
		CoverURL:    in.CoverURL,
		IsPublished: in.IsPublished,
		Position:    in.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return CourseDTO{}, err
	}
	s.changed(ctx, created.ID)
	return toCourseDTO(created), nil
}

func (s *CourseService) Update(ctx context.Context, id string, in CourseInput) (CourseDTO, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return CourseDTO{}, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return CourseDTO{}, err
	}
	existing.Slug = in.Slug
	existing.Title = in.Title
	existing.Description = in.Description
	existing.Level = domain.CourseLevel(in.Level)
	existing.CoverURL = in.CoverURL
	existing.IsPublished = in.IsPublished
	existing.Position = in.Position
	existing.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return CourseDTO{}, err
	}
	s.changed(ctx, updated.ID)
	return toCourseDTO(updated), nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, id)
	return nil
}

func (s *CourseService) CreateLesson(ctx context.Context, courseID string, in LessonInput) (LessonDTO, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.VideoURL = strings.TrimSpace(in.VideoURL)
	if err := validateInput(in); err != nil {
		return LessonDTO{}, err
	}
	if _, err := s.repo.Get(ctx, courseID); err != nil {
		return LessonDTO{}, err
	}
	now := s.now().UTC()
	created, err := s.repo.CreateLesson(ctx, domain.Lesson{
		ID:              xid.New().String(),
		CourseID:        courseID,
		Title:           in.Title,
		VideoURL:        in.VideoURL,
		DurationSeconds: in.DurationSeconds,
		Position:        in.Position,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return LessonDTO{}, err
	}
	s.changed(ctx, courseID)
	return toLessonDTO(created), nil
}

func (s *CourseService) UpdateLesson(ctx context.Context, id string, in LessonInput) (LessonDTO, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.VideoURL = strings.TrimSpace(in.VideoURL)
	if err := validateInput(in); err != nil {
		return LessonDTO{}, err
	}
	existing, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return LessonDTO{}, err
	}
	existing.Title = in.Title
	existing.VideoURL = in.VideoURL
	existing.DurationSeconds = in.DurationSeconds
	existing.Position = in.Position
	existing.UpdatedAt = s.now().UTC()

	updated, err := s.repo.UpdateLesson(ctx, existing)
	if err != nil {
		return LessonDTO{}, err
	}
	s.changed(ctx, updated.CourseID)
	return toLessonDTO(updated), nil
}

func (s *CourseService) DeleteLesson(ctx context.Context, id string) error {
	l, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteLesson(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, l.CourseID)
	return nil
}

type courseChange struct {
	CourseID string `json:"courseId"`
}

// changed invalide le catalogue et prévient les abonnés (recalcul de progression).
func (s *CourseService) changed(ctx context.Context, courseID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	publish(s.bus, ports.TopicCourseUpdated, courseChange{CourseID: courseID})
}
