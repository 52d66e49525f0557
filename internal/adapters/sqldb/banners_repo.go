package sqldb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

const bannerColumns = `
	id, title, image_url, link_url, position, is_active, starts_at, ends_at, created_at, updated_at`

type bannerRow struct {
	ID        string `db:"id"`
	Title     string `db:"title"`
	ImageURL  string `db:"image_url"`
	LinkURL   string `db:"link_url"`
	Position  int    `db:"position"`
	IsActive  bool   `db:"is_active"`
	StartsAt  string `db:"starts_at"`
	EndsAt    string `db:"ends_at"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r bannerRow) toDomain() domain.Banner {
	return domain.Banner{
		ID:        r.ID,
		Title:     r.Title,
		ImageURL:  r.ImageURL,
		LinkURL:   r.LinkURL,
		Position:  r.Position,
		IsActive:  r.IsActive,
		StartsAt:  parseTime(r.StartsAt),
		EndsAt:    parseTime(r.EndsAt),
		CreatedAt: parseTime(r.CreatedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

type BannersRepository struct {
	db *sqlx.DB
}

func NewBannersRepository(db *sqlx.DB) *BannersRepository {
	return &BannersRepository{db: db}
}

func (r *BannersRepository) Create(ctx context.Context, b domain.Banner) (domain.Banner, error) {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO banners(`+bannerColumns+`)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		b.ID, b.Title, b.ImageURL, b.LinkURL, b.Position, b.IsActive,
		formatTime(b.StartsAt), formatTime(b.EndsAt), formatTime(b.CreatedAt), formatTime(b.UpdatedAt),
	)
	if err != nil {
		return domain.Banner{}, err
	}
	return r.Get(ctx, b.ID)
}

func (r *BannersRepository) Get(ctx context.Context, id string) (domain.Banner, error) {
	var row bannerRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT`+bannerColumns+` FROM banners WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Banner{}, ports.ErrNotFound
		}
		return domain.Banner{}, err
	}
	return row.toDomain(), nil
}

func (r *BannersRepository) List(ctx context.Context) ([]domain.Banner, error) {
	var rows []bannerRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT`+bannerColumns+` FROM banners ORDER BY position ASC, created_at DESC`); err != nil {
		return nil, err
	}
	out := make([]domain.Banner, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BannersRepository) Update(ctx context.Context, b domain.Banner) (domain.Banner, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE banners
		SET title = ?, image_url = ?, link_url = ?, position = ?, is_active = ?,
			starts_at = ?, ends_at = ?, updated_at = ?
		WHERE id = ?
	`),
		b.Title, b.ImageURL, b.LinkURL, b.Position, b.IsActive,
		formatTime(b.StartsAt), formatTime(b.EndsAt), formatTime(b.UpdatedAt),
		b.ID,
	)
	if err != nil {
		return domain.Banner{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Banner{}, ports.ErrNotFound
	}
	return r.Get(ctx, b.ID)
}

func (r *BannersRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM banners WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}
