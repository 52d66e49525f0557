package sqldb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

const courseColumns = `
	id, slug, title, description, level, cover_url, is_published, position, created_at, updated_at`

const lessonColumns = `
	id, course_id, title, video_url, duration_seconds, position, created_at, updated_at`

type courseRow struct {
	ID          string `db:"id"`
	Slug        string `db:"slug"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Level       string `db:"level"`
	CoverURL    string `db:"cover_url"`
	IsPublished bool   `db:"is_published"`
	Position    int    `db:"position"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (r courseRow) toDomain() domain.Course {
	return domain.Course{
		ID:          r.ID,
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		Level:       domain.CourseLevel(r.Level),
		CoverURL:    r.CoverURL,
		IsPublished: r.IsPublished,
		Position:    r.Position,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

type lessonRow struct {
	ID              string `db:"id"`
	CourseID        string `db:"course_id"`
	Title           string `db:"title"`
	VideoURL        string `db:"video_url"`
	DurationSeconds int    `db:"duration_seconds"`
	Position        int    `db:"position"`
	CreatedAt       string `db:"created_at"`
	UpdatedAt       string `db:"updated_at"`
}

func (r lessonRow) toDomain() domain.Lesson {
	return domain.Lesson{
		ID:              r.ID,
		CourseID:        r.CourseID,
		Title:           r.Title,
		VideoURL:        r.VideoURL,
		DurationSeconds: r.DurationSeconds,
		Position:        r.Position,
		CreatedAt:       parseTime(r.CreatedAt),
		UpdatedAt:       parseTime(r.UpdatedAt),
	}
}

type CoursesRepository struct {
	db *sqlx.DB
}

func NewCoursesRepository(db *sqlx.DB) *CoursesRepository {
	return &CoursesRepository{db: db}
}

func (r *CoursesRepository) Create(ctx context.Context, c domain.Course) (domain.Course, error) {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO courses(`+courseColumns+`)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		c.ID, c.Slug, c.Title, c.Description, string(c.Level), c.CoverURL, c.IsPublished, c.Position,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Course{}, ports.ErrConflict
		}
		return domain.Course{}, err
	}
	return r.Get(ctx, c.ID)
}

func (r *CoursesRepository) Get(ctx context.Context, id string) (domain.Course, error) {
	return r.getBy(ctx, "id", id)
}

func (r *CoursesRepository) GetBySlug(ctx context.Context, slug string) (domain.Course, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *CoursesRepository) getBy(ctx context.Context, column, value string) (domain.Course, error) {
	var row courseRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT`+courseColumns+` FROM courses WHERE `+column+` = ?`), value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Course{}, ports.ErrNotFound
		}
		return domain.Course{}, err
	}
	return row.toDomain(), nil
}

func (r *CoursesRepository) List(ctx context.Context, publishedOnly bool) ([]domain.Course, error) {
	q := `SELECT` + courseColumns + ` FROM courses`
	args := []any{}
	if publishedOnly {
		q += ` WHERE is_published = ?`
		args = append(args, true)
	}
	q += ` ORDER BY position ASC, created_at ASC`

	var rows []courseRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	out := make([]domain.Course, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CoursesRepository) Update(ctx context.Context, c domain.Course) (domain.Course, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE courses
		SET slug = ?, title = ?, description = ?, level = ?, cover_url = ?,
			is_published = ?, position = ?, updated_at = ?
		WHERE id = ?
	`),
		c.Slug, c.Title, c.Description, string(c.Level), c.CoverURL,
		c.IsPublished, c.Position, formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Course{}, ports.ErrConflict
		}
		return domain.Course{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Course{}, ports.ErrNotFound
	}
	return r.Get(ctx, c.ID)
}

func (r *CoursesRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM courses WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *CoursesRepository) CreateLesson(ctx context.Context, l domain.Lesson) (domain.Lesson, error) {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO lessons(`+lessonColumns+`)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`),
		l.ID, l.CourseID, l.Title, l.VideoURL, l.DurationSeconds, l.Position,
		formatTime(l.CreatedAt), formatTime(l.UpdatedAt),
	)
	if err != nil {
		return domain.Lesson{}, err
	}
	return r.GetLesson(ctx, l.ID)
}

func (r *CoursesRepository) GetLesson(ctx context.Context, id string) (domain.Lesson, error) {
	var row lessonRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT`+lessonColumns+` FROM lessons WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Lesson{}, ports.ErrNotFound
		}
		return domain.Lesson{}, err
	}
	return row.toDomain(), nil
}

func (r *CoursesRepository) ListLessons(ctx context.Context, courseID string) ([]domain.Lesson, error) {
	var rows []lessonRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT`+lessonColumns+`
		FROM lessons WHERE course_id = ?
		ORDER BY position ASC, created_at ASC
	`), courseID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Lesson, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CoursesRepository) UpdateLesson(ctx context.Context, l domain.Lesson) (domain.Lesson, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE lessons
		SET title = ?, video_url = ?, duration_seconds = ?, position = ?, updated_at = ?
		WHERE id = ?
	`), l.Title, l.VideoURL, l.DurationSeconds, l.Position, formatTime(l.UpdatedAt), l.ID)
	if err != nil {
		return domain.Lesson{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Lesson{}, ports.ErrNotFound
	}
	return r.GetLesson(ctx, l.ID)
}

func (r *CoursesRepository) DeleteLesson(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM lessons WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *CoursesRepository) CountLessons(ctx context.Context, courseID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM lessons WHERE course_id = ?`), courseID)
	return n, err
}
