package sqldb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

var testNow = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

func createTestUser(t *testing.T, repo *UsersRepository, id, email string) domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(),
		domain.User{ID: id, Email: email, PasswordHash: "hash", Role: domain.RoleUser, CreatedAt: testNow, UpdatedAt: testNow},
		domain.Profile{UserID: id, FullName: "Roger", UpdatedAt: testNow},
	)
	if err != nil {
		t.Fatalf("Create(%s): %v", email, err)
	}
	return u
}

func TestUsersRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepository(openTestDB(t).SQL)

	u := createTestUser(t, repo, "u1", "roger@rogerbox.test")
	if u.Role != domain.RoleUser || !u.CreatedAt.Equal(testNow) {
		t.Fatalf("unexpected user: %+v", u)
	}

	byEmail, err := repo.GetByEmail(ctx, "  Roger@RogerBox.test ")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != "u1" {
		t.Fatalf("GetByEmail: got %q", byEmail.ID)
	}

	p, err := repo.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.FullName != "Roger" {
		t.Fatalf("FullName: got %q", p.FullName)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUsersRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepository(openTestDB(t).SQL)

	createTestUser(t, repo, "u1", "roger@rogerbox.test")
	_, err := repo.Create(ctx,
		domain.User{ID: "u2", Email: "roger@rogerbox.test", PasswordHash: "x", Role: domain.RoleUser, CreatedAt: testNow, UpdatedAt: testNow},
		domain.Profile{UserID: "u2", UpdatedAt: testNow},
	)
	if !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	// La transaction a été annulée : pas de profil orphelin.
	if _, err := repo.GetProfile(ctx, "u2"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected no profile for u2, got %v", err)
	}
}

func TestUsersRepository_PutProfile(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepository(openTestDB(t).SQL)
	createTestUser(t, repo, "u1", "roger@rogerbox.test")

	p, err := repo.PutProfile(ctx, domain.Profile{UserID: "u1", FullName: "Roger B.", HeightCm: 178, GoalWeightKg: 72.5, UpdatedAt: testNow.Add(time.Hour)})
	if err != nil {
		t.Fatalf("PutProfile: %v", err)
	}
	if p.FullName != "Roger B." || p.HeightCm != 178 || p.GoalWeightKg != 72.5 {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestUsersRepository_SetRole(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepository(openTestDB(t).SQL)
	createTestUser(t, repo, "u1", "coach@rogerbox.test")

	later := testNow.Add(time.Hour)
	if err := repo.SetRole(ctx, "u1", domain.RoleAdmin, later); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	u, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.Role != domain.RoleAdmin || !u.UpdatedAt.Equal(later) {
		t.Fatalf("unexpected user: %+v", u)
	}
	if err := repo.SetRole(ctx, "ghost", domain.RoleAdmin, later); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
