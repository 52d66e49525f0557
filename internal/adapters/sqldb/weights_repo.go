package sqldb

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

type weightRow struct {
	ID         string  `db:"id"`
	UserID     string  `db:"user_id"`
	WeightKg   float64 `db:"weight_kg"`
	RecordedOn string  `db:"recorded_on"`
	Note       string  `db:"note"`
	CreatedAt  string  `db:"created_at"`
}

func (r weightRow) toDomain() domain.WeightEntry {
	return domain.WeightEntry{
		ID:         r.ID,
		UserID:     r.UserID,
		WeightKg:   r.WeightKg,
		RecordedOn: parseDate(r.RecordedOn),
		Note:       r.Note,
		CreatedAt:  parseTime(r.CreatedAt),
	}
}

type WeightsRepository struct {
	db *sqlx.DB
}

func NewWeightsRepository(db *sqlx.DB) *WeightsRepository {
	return &WeightsRepository{db: db}
}

// Upsert garde l'id de l'entrée existante du jour (seuls poids et note changent).
func (r *WeightsRepository) Upsert(ctx context.Context, e domain.WeightEntry) (domain.WeightEntry, error) {
	day := formatDate(e.RecordedOn)
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO weight_entries(id, user_id, weight_kg, recorded_on, note, created_at)
		VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, recorded_on) DO UPDATE SET
			weight_kg = excluded.weight_kg,
			note = excluded.note
	`), e.ID, e.UserID, e.WeightKg, day, e.Note, formatTime(e.CreatedAt))
	if err != nil {
		return domain.WeightEntry{}, err
	}

	var row weightRow
	err = r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT id, user_id, weight_kg, recorded_on, note, created_at
		FROM weight_entries WHERE user_id = ? AND recorded_on = ?
	`), e.UserID, day)
	if err != nil {
		return domain.WeightEntry{}, err
	}
	return row.toDomain(), nil
}

func (r *WeightsRepository) List(ctx context.Context, userID string, limit int) ([]domain.WeightEntry, error) {
	q := `
		SELECT id, user_id, weight_kg, recorded_on, note, created_at
		FROM weight_entries WHERE user_id = ?
		ORDER BY recorded_on DESC
	`
	args := []any{userID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	var rows []weightRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	out := make([]domain.WeightEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Delete ne supprime que les entrées de l'utilisateur ; sinon ErrNotFound.
func (r *WeightsRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM weight_entries WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}
