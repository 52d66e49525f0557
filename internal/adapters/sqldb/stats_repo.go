package sqldb

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/rogerbox/rogerbox/internal/domain"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Stats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	counts := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&s.Users, `SELECT COUNT(*) FROM users`, nil},
		{&s.PublishedCourses, `SELECT COUNT(*) FROM courses WHERE is_published = ?`, []any{true}},
		{&s.Lessons, `SELECT COUNT(*) FROM lessons`, nil},
		{&s.Complements, `SELECT COUNT(*) FROM complements`, nil},
		{&s.PublishedComplements, `SELECT COUNT(*) FROM complements WHERE is_published = ?`, []any{true}},
		{&s.Completions, `SELECT COUNT(*) FROM lesson_completions`, nil},
		{&s.WeightEntries, `SELECT COUNT(*) FROM weight_entries`, nil},
	}
	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dest, r.db.Rebind(c.query), c.args...); err != nil {
			return domain.Stats{}, err
		}
	}
	return s, nil
}
