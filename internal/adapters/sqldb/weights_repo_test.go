package sqldb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

func day(s string) time.Time {
	t, _ := time.Parse(domain.DateLayout, s)
	return t
}

func TestWeightsRepository_UpsertPerDay(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUsersRepository(db.SQL)
	createTestUser(t, users, "u1", "roger@rogerbox.test")
	createTestUser(t, users, "u2", "other@rogerbox.test")
	repo := NewWeightsRepository(db.SQL)

	first, err := repo.Upsert(ctx, domain.WeightEntry{ID: "w1", UserID: "u1", WeightKg: 80.4, RecordedOn: day("2024-03-01"), CreatedAt: testNow})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	again, err := repo.Upsert(ctx, domain.WeightEntry{ID: "w2", UserID: "u1", WeightKg: 80.1, RecordedOn: day("2024-03-01"), Note: "matin", CreatedAt: testNow})
	if err != nil {
		t.Fatalf("Upsert(same day): %v", err)
	}
	if again.ID != first.ID || again.WeightKg != 80.1 || again.Note != "matin" {
		t.Fatalf("same-day upsert should keep id and update values: %+v", again)
	}
	if again.RecordedOn.Format(domain.DateLayout) != "2024-03-01" {
		t.Fatalf("RecordedOn: got %v", again.RecordedOn)
	}

	if _, err := repo.Upsert(ctx, domain.WeightEntry{ID: "w3", UserID: "u1", WeightKg: 79.6, RecordedOn: day("2024-03-05"), CreatedAt: testNow}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	list, err := repo.List(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "w3" {
		t.Fatalf("expected newest first, got %+v", list)
	}
	limited, _ := repo.List(ctx, "u1", 1)
	if len(limited) != 1 {
		t.Fatalf("limit ignored: %d", len(limited))
	}

	if err := repo.Delete(ctx, "u2", "w3"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("another user must not delete the entry, got %v", err)
	}
	if err := repo.Delete(ctx, "u1", "w3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
