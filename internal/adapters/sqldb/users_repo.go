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

type userRow struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

func (r userRow) toDomain() domain.User {
	role := domain.Role(r.Role)
	if role == "" {
		role = domain.RoleUser
	}
	return domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         role,
		CreatedAt:    parseTime(r.CreatedAt),
		UpdatedAt:    parseTime(r.UpdatedAt),
	}
}

type profileRow struct {
	UserID       string  `db:"user_id"`
	FullName     string  `db:"full_name"`
	AvatarURL    string  `db:"avatar_url"`
	HeightCm     int     `db:"height_cm"`
	GoalWeightKg float64 `db:"goal_weight_kg"`
	UpdatedAt    string  `db:"updated_at"`
}

func (r profileRow) toDomain() domain.Profile {
	return domain.Profile{
		UserID:       r.UserID,
		FullName:     r.FullName,
		AvatarURL:    r.AvatarURL,
		HeightCm:     r.HeightCm,
		GoalWeightKg: r.GoalWeightKg,
		UpdatedAt:    parseTime(r.UpdatedAt),
	}
}

type UsersRepository struct {
	db *sqlx.DB
}

func NewUsersRepository(db *sqlx.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create insère l'utilisateur et son profil dans la même transaction.
func (r *UsersRepository) Create(ctx context.Context, u domain.User, p domain.Profile) (domain.User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.User{}, err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO users(id, email, password_hash, role, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`), u.ID, u.Email, u.PasswordHash, string(u.Role), formatTime(u.CreatedAt), formatTime(u.UpdatedAt))
	if err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return domain.User{}, ports.ErrConflict
		}
		return domain.User{}, err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO profiles(user_id, full_name, avatar_url, height_cm, goal_weight_kg, updated_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`), u.ID, p.FullName, p.AvatarURL, p.HeightCm, p.GoalWeightKg, formatTime(u.UpdatedAt))
	if err != nil {
		_ = tx.Rollback()
		return domain.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.User{}, err
	}
	return r.Get(ctx, u.ID)
}

func (r *UsersRepository) Get(ctx context.Context, id string) (domain.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getBy(ctx, "email", domain.NormalizeEmail(email))
}

func (r *UsersRepository) SetRole(ctx context.Context, id string, role domain.Role, at time.Time) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE users SET role = ?, updated_at = ? WHERE id = ?
	`), string(role), formatTime(at), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *UsersRepository) getBy(ctx context.Context, column, value string) (domain.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT id, email, password_hash, role, created_at, updated_at
		FROM users WHERE `+column+` = ?
	`), value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, ports.ErrNotFound
		}
		return domain.User{}, err
	}
	return row.toDomain(), nil
}

func (r *UsersRepository) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT user_id, full_name, avatar_url, height_cm, goal_weight_kg, updated_at
		FROM profiles WHERE user_id = ?
	`), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Profile{}, ports.ErrNotFound
		}
		return domain.Profile{}, err
	}
	return row.toDomain(), nil
}

func (r *UsersRepository) PutProfile(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO profiles(user_id, full_name, avatar_url, height_cm, goal_weight_kg, updated_at)
		VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			full_name = excluded.full_name,
			avatar_url = excluded.avatar_url,
			height_cm = excluded.height_cm,
			goal_weight_kg = excluded.goal_weight_kg,
			updated_at = excluded.updated_at
	`), p.UserID, p.FullName, p.AvatarURL, p.HeightCm, p.GoalWeightKg, formatTime(p.UpdatedAt))
	if err != nil {
		return domain.Profile{}, err
	}
	return r.GetProfile(ctx, p.UserID)
}
