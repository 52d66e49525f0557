package ports

import (
	"context"
	"time"

	"github.com/rogerbox/rogerbox/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u domain.User, p domain.Profile) (domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	SetRole(ctx context.Context, id string, role domain.Role, at time.Time) error

	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
	PutProfile(ctx context.Context, p domain.Profile) (domain.Profile, error)
}

type CourseRepository interface {
	Create(ctx context.Context, c domain.Course) (domain.Course, error)
	Get(ctx context.Context, id string) (domain.Course, error)
	GetBySlug(ctx context.Context, slug string) (domain.Course, error)
	List(ctx context.Context, publishedOnly bool) ([]domain.Course, error)
	Update(ctx context.Context, c domain.Course) (domain.Course, error)
	Delete(ctx context.Context, id string) error

	CreateLesson(ctx context.Context, l domain.Lesson) (domain.Lesson, error)
	GetLesson(ctx context.Context, id string) (domain.Lesson, error)
	ListLessons(ctx context.Context, courseID string) ([]domain.Lesson, error)
	UpdateLesson(ctx context.Context, l domain.Lesson) (domain.Lesson, error)
	DeleteLesson(ctx context.Context, id string) error
	CountLessons(ctx context.Context, courseID string) (int, error)
}

type ProgressRepository interface {
	// Complete est idempotent (upsert).
	Complete(ctx context.Context, c domain.LessonCompletion) error
	Uncomplete(ctx context.Context, userID, lessonID string) error
	CompletedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error)
	CountCompleted(ctx context.Context, userID, courseID string) (int, error)

	PutProgress(ctx context.Context, p domain.CourseProgress) (domain.CourseProgress, error)
	GetProgress(ctx context.Context, userID, courseID string) (domain.CourseProgress, error)
	ListProgress(ctx context.Context, userID string) ([]domain.CourseProgress, error)
	// UsersWithProgress liste les utilisateurs ayant un agrégat ou une complétion sur le cours.
	UsersWithProgress(ctx context.Context, courseID string) ([]string, error)
}

type WeightRepository interface {
	// Upsert remplace l'entrée du même jour pour l'utilisateur.
	Upsert(ctx context.Context, e domain.WeightEntry) (domain.WeightEntry, error)
	List(ctx context.Context, userID string, limit int) ([]domain.WeightEntry, error)
	Delete(ctx context.Context, userID, id string) error
}

type BannerRepository interface {
	Create(ctx context.Context, b domain.Banner) (domain.Banner, error)
	Get(ctx context.Context, id string) (domain.Banner, error)
	List(ctx context.Context) ([]domain.Banner, error)
	Update(ctx context.Context, b domain.Banner) (domain.Banner, error)
	Delete(ctx context.Context, id string) error
}

type StatsRepository interface {
	Stats(ctx context.Context) (domain.Stats, error)
}

// CatalogCache garde la liste publique des cours. Les implémentations sont best-effort :
// une erreur de cache ne doit jamais faire échouer la requête.
type CatalogCache interface {
	GetCourses(ctx context.Context) ([]domain.Course, bool)
	SetCourses(ctx context.Context, courses []domain.Course)
	Invalidate(ctx context.Context)
}

// UploadSigner produit des URLs d'upload direct vers le stockage objet.
type UploadSigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (uploadURL string, publicURL string, err error)
}
