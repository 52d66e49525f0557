package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

const complementColumns = `
	id, week_number, year, day_of_week,
	title, description, video_url, thumbnail_url, duration_seconds,
	is_published, publish_at, created_at, updated_at`

type complementRow struct {
	ID              string `db:"id"`
	WeekNumber      int    `db:"week_number"`
	Year            int    `db:"year"`
	DayOfWeek       int    `db:"day_of_week"`
	Title           string `db:"title"`
	Description     string `db:"description"`
	VideoURL        string `db:"video_url"`
	ThumbnailURL    string `db:"thumbnail_url"`
	DurationSeconds int    `db:"duration_seconds"`
	IsPublished     bool   `db:"is_published"`
	PublishAt       string `db:"publish_at"`
	CreatedAt       string `db:"created_at"`
	UpdatedAt       string `db:"updated_at"`
}

func (r complementRow) toDomain() domain.Complement {
	return domain.Complement{
		ID: r.ID,
		ContentSlot: domain.ContentSlot{
			WeekNumber: r.WeekNumber,
			Year:       r.Year,
			DayOfWeek:  r.DayOfWeek,
		},
		Title:           r.Title,
		Description:     r.Description,
		VideoURL:        r.VideoURL,
		ThumbnailURL:    r.ThumbnailURL,
		DurationSeconds: r.DurationSeconds,
		IsPublished:     r.IsPublished,
		PublishAt:       parseTime(r.PublishAt),
		CreatedAt:       parseTime(r.CreatedAt),
		UpdatedAt:       parseTime(r.UpdatedAt),
	}
}

type ComplementsRepository struct {
	db *sqlx.DB
}

func NewComplementsRepository(db *sqlx.DB) *ComplementsRepository {
	return &ComplementsRepository{db: db}
}

func (r *ComplementsRepository) FindPublished(ctx context.Context, slot domain.ContentSlot) (domain.Complement, error) {
	var row complementRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT`+complementColumns+`
		FROM complements
		WHERE week_number = ? AND year = ? AND day_of_week = ? AND is_published = ?
		LIMIT 1
	`), slot.WeekNumber, slot.Year, slot.DayOfWeek, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Complement{}, ports.ErrNotFound
		}
		return domain.Complement{}, err
	}
	return row.toDomain(), nil
}

func (r *ComplementsRepository) Create(ctx context.Context, c domain.Complement) (domain.Complement, error) {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO complements(`+complementColumns+`)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		c.ID, c.WeekNumber, c.Year, c.DayOfWeek,
		c.Title, c.Description, c.VideoURL, c.ThumbnailURL, c.DurationSeconds,
		c.IsPublished, formatTime(c.PublishAt), formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Complement{}, ports.ErrConflict
		}
		return domain.Complement{}, err
	}
	return r.Get(ctx, c.ID)
}

func (r *ComplementsRepository) Get(ctx context.Context, id string) (domain.Complement, error) {
	var row complementRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT`+complementColumns+` FROM complements WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Complement{}, ports.ErrNotFound
		}
		return domain.Complement{}, err
	}
	return row.toDomain(), nil
}

func (r *ComplementsRepository) List(ctx context.Context, year, week int) ([]domain.Complement, error) {
	q := `SELECT` + complementColumns + ` FROM complements WHERE 1 = 1`
	args := []any{}
	if year > 0 {
		q += ` AND year = ?`
		args = append(args, year)
	}
	if week > 0 {
		q += ` AND week_number = ?`
		args = append(args, week)
	}
	q += ` ORDER BY year DESC, week_number DESC, day_of_week ASC`

	var rows []complementRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	out := make([]domain.Complement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ComplementsRepository) Update(ctx context.Context, c domain.Complement) (domain.Complement, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE complements
		SET week_number = ?, year = ?, day_of_week = ?,
			title = ?, description = ?, video_url = ?, thumbnail_url = ?, duration_seconds = ?,
			is_published = ?, publish_at = ?, updated_at = ?
		WHERE id = ?
	`),
		c.WeekNumber, c.Year, c.DayOfWeek,
		c.Title, c.Description, c.VideoURL, c.ThumbnailURL, c.DurationSeconds,
		c.IsPublished, formatTime(c.PublishAt), formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Complement{}, ports.ErrConflict
		}
		return domain.Complement{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Complement{}, ports.ErrNotFound
	}
	return r.Get(ctx, c.ID)
}

func (r *ComplementsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM complements WHERE id = ?`), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *ComplementsRepository) Due(ctx context.Context, now time.Time, limit int) ([]domain.Complement, error) {
	q := `
		SELECT` + complementColumns + `
		FROM complements
		WHERE is_published = ? AND publish_at <> '' AND publish_at <= ?
		ORDER BY publish_at ASC
	`
	args := []any{false, formatTime(now)}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []complementRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	out := make([]domain.Complement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ComplementsRepository) MarkPublished(ctx context.Context, id string, at time.Time) (bool, error) {
	// Conditionnel sur is_published : un complément n'est publié qu'une fois.
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE complements SET is_published = ?, updated_at = ?
		WHERE id = ? AND is_published = ?
	`), true, formatTime(at), id, false)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
