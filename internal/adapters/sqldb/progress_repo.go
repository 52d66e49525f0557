package sqldb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

type progressRow struct {
	UserID           string `db:"user_id"`
	CourseID         string `db:"course_id"`
	CompletedLessons int    `db:"completed_lessons"`
	TotalLessons     int    `db:"total_lessons"`
	UpdatedAt        string `db:"updated_at"`
}

func (r progressRow) toDomain() domain.CourseProgress {
	return domain.CourseProgress{
		UserID:           r.UserID,
		CourseID:         r.CourseID,
		CompletedLessons: r.CompletedLessons,
		TotalLessons:     r.TotalLessons,
		UpdatedAt:        parseTime(r.UpdatedAt),
	}
}

type ProgressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) Complete(ctx context.Context, c domain.LessonCompletion) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO lesson_completions(user_id, lesson_id, course_id, completed_at)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(user_id, lesson_id) DO NOTHING
	`), c.UserID, c.LessonID, c.CourseID, formatTime(c.CompletedAt))
	return err
}

func (r *ProgressRepository) Uncomplete(ctx context.Context, userID, lessonID string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM lesson_completions WHERE user_id = ? AND lesson_id = ?
	`), userID, lessonID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *ProgressRepository) CompletedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	ids := []string{}
	err := r.db.SelectContext(ctx, &ids, r.db.Rebind(`
		SELECT lesson_id FROM lesson_completions
		WHERE user_id = ? AND course_id = ?
		ORDER BY completed_at ASC
	`), userID, courseID)
	return ids, err
}

func (r *ProgressRepository) CountCompleted(ctx context.Context, userID, courseID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`
		SELECT COUNT(*) FROM lesson_completions WHERE user_id = ? AND course_id = ?
	`), userID, courseID)
	return n, err
}

func (r *ProgressRepository) PutProgress(ctx context.Context, p domain.CourseProgress) (domain.CourseProgress, error) {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO course_progress(user_id, course_id, completed_lessons, total_lessons, updated_at)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(user_id, course_id) DO UPDATE SET
			completed_lessons = excluded.completed_lessons,
			total_lessons = excluded.total_lessons,
			updated_at = excluded.updated_at
	`), p.UserID, p.CourseID, p.CompletedLessons, p.TotalLessons, formatTime(p.UpdatedAt))
	if err != nil {
		return domain.CourseProgress{}, err
	}
	return r.GetProgress(ctx, p.UserID, p.CourseID)
}

func (r *ProgressRepository) GetProgress(ctx context.Context, userID, courseID string) (domain.CourseProgress, error) {
	var row progressRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT user_id, course_id, completed_lessons, total_lessons, updated_at
		FROM course_progress WHERE user_id = ? AND course_id = ?
	`), userID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CourseProgress{}, ports.ErrNotFound
		}
		return domain.CourseProgress{}, err
	}
	return row.toDomain(), nil
}

func (r *ProgressRepository) UsersWithProgress(ctx context.Context, courseID string) ([]string, error) {
	ids := []string{}
	err := r.db.SelectContext(ctx, &ids, r.db.Rebind(`
		SELECT user_id FROM course_progress WHERE course_id = ?
		UNION
		SELECT user_id FROM lesson_completions WHERE course_id = ?
		ORDER BY user_id
	`), courseID, courseID)
	return ids, err
}

func (r *ProgressRepository) ListProgress(ctx context.Context, userID string) ([]domain.CourseProgress, error) {
	var rows []progressRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT user_id, course_id, completed_lessons, total_lessons, updated_at
		FROM course_progress WHERE user_id = ?
		ORDER BY updated_at DESC
	`), userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CourseProgress, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
