package sqldb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

func newComplement(id string, week, year, day int, published bool) domain.Complement {
	now := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	return domain.Complement{
		ID:          id,
		ContentSlot: domain.ContentSlot{WeekNumber: week, Year: year, DayOfWeek: day},
		Title:       "Complement " + id,
		VideoURL:    "https://videos.rogerbox.test/" + id + ".mp4",
		IsPublished: published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestComplementsRepository_FindPublished(t *testing.T) {
	ctx := context.Background()
	repo := NewComplementsRepository(openTestDB(t).SQL)

	slot := domain.ContentSlot{WeekNumber: 10, Year: 2024, DayOfWeek: 3}
	if _, err := repo.FindPublished(ctx, slot); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	if _, err := repo.Create(ctx, newComplement("draft", 10, 2024, 3, false)); err != nil {
		t.Fatalf("Create(draft): %v", err)
	}
	if _, err := repo.FindPublished(ctx, slot); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("unpublished complement must not be served, got %v", err)
	}

	if _, err := repo.Create(ctx, newComplement("fri", 10, 2024, 5, true)); err != nil {
		t.Fatalf("Create(fri): %v", err)
	}
	got, err := repo.FindPublished(ctx, domain.ContentSlot{WeekNumber: 10, Year: 2024, DayOfWeek: 5})
	if err != nil {
		t.Fatalf("FindPublished: %v", err)
	}
	if got.ID != "fri" || !got.IsPublished {
		t.Fatalf("unexpected complement: %+v", got)
	}
	// Le slot relu est identique au slot écrit.
	if got.ContentSlot != (domain.ContentSlot{WeekNumber: 10, Year: 2024, DayOfWeek: 5}) {
		t.Fatalf("slot round-trip: got %+v", got.ContentSlot)
	}
}

func TestComplementsRepository_SlotIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewComplementsRepository(openTestDB(t).SQL)

	if _, err := repo.Create(ctx, newComplement("a", 1, 2025, 1, true)); err != nil {
		t.Fatalf("Create(a): %v", err)
	}
	if _, err := repo.Create(ctx, newComplement("b", 1, 2025, 1, false)); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	b, err := repo.Create(ctx, newComplement("b", 1, 2025, 2, false))
	if err != nil {
		t.Fatalf("Create(b): %v", err)
	}
	b.DayOfWeek = 1
	if _, err := repo.Update(ctx, b); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict on update, got %v", err)
	}
}

func TestComplementsRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewComplementsRepository(openTestDB(t).SQL)

	for i, day := range []int{1, 2, 3} {
		if _, err := repo.Create(ctx, newComplement(string(rune('a'+i)), 12, 2024, day, true)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := repo.Create(ctx, newComplement("other", 13, 2024, 1, true)); err != nil {
		t.Fatalf("Create(other): %v", err)
	}

	week12, err := repo.List(ctx, 2024, 12)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(week12) != 3 || week12[0].DayOfWeek != 1 || week12[2].DayOfWeek != 3 {
		t.Fatalf("unexpected week listing: %+v", week12)
	}
	all, err := repo.List(ctx, 0, 0)
	if err != nil || len(all) != 4 {
		t.Fatalf("List(all): %d, %v", len(all), err)
	}

	c := week12[0]
	c.Title = "Mobilité"
	c.UpdatedAt = c.UpdatedAt.Add(time.Hour)
	updated, err := repo.Update(ctx, c)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Mobilité" {
		t.Fatalf("Title: got %q", updated.Title)
	}

	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, c.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := repo.Update(ctx, c); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update of deleted, got %v", err)
	}
}

func TestComplementsRepository_DueAndMarkPublished(t *testing.T) {
	ctx := context.Background()
	repo := NewComplementsRepository(openTestDB(t).SQL)
	now := time.Date(2024, time.March, 4, 6, 0, 0, 0, time.UTC)

	due := newComplement("due", 10, 2024, 1, false)
	due.PublishAt = now.Add(-time.Minute)
	later := newComplement("later", 10, 2024, 2, false)
	later.PublishAt = now.Add(24 * time.Hour)
	manual := newComplement("manual", 10, 2024, 3, false)
	for _, c := range []domain.Complement{due, later, manual} {
		if _, err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create(%s): %v", c.ID, err)
		}
	}

	got, err := repo.Due(ctx, now, 10)
	if err != nil {
		t.Fatalf("Due: %v", err)
	}
	if len(got) != 1 || got[0].ID != "due" {
		t.Fatalf("expected only 'due', got %+v", got)
	}
	if !got[0].PublishAt.Equal(due.PublishAt) {
		t.Fatalf("PublishAt round-trip: want %v, got %v", due.PublishAt, got[0].PublishAt)
	}

	ok, err := repo.MarkPublished(ctx, "due", now)
	if err != nil || !ok {
		t.Fatalf("MarkPublished: %v, %v", ok, err)
	}
	ok, err = repo.MarkPublished(ctx, "due", now)
	if err != nil || ok {
		t.Fatalf("second MarkPublished should be a no-op: %v, %v", ok, err)
	}
	if got, _ := repo.Due(ctx, now, 10); len(got) != 0 {
		t.Fatalf("expected nothing due after publish, got %+v", got)
	}
}
