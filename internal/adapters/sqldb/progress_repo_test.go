package sqldb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

func TestProgressRepository_CompletionsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUsersRepository(db.SQL)
	courses := NewCoursesRepository(db.SQL)
	progress := NewProgressRepository(db.SQL)

	createTestUser(t, users, "u1", "roger@rogerbox.test")
	createTestCourse(t, courses, "c1", "abdos", 1, true)
	createTestLesson(t, courses, "l1", "c1", 1)
	createTestLesson(t, courses, "l2", "c1", 2)

	done := domain.LessonCompletion{UserID: "u1", LessonID: "l1", CourseID: "c1", CompletedAt: testNow}
	for i := 0; i < 2; i++ {
		if err := progress.Complete(ctx, done); err != nil {
			t.Fatalf("Complete #%d: %v", i, err)
		}
	}
	n, err := progress.CountCompleted(ctx, "u1", "c1")
	if err != nil || n != 1 {
		t.Fatalf("CountCompleted: %d, %v", n, err)
	}
	ids, err := progress.CompletedLessonIDs(ctx, "u1", "c1")
	if err != nil || len(ids) != 1 || ids[0] != "l1" {
		t.Fatalf("CompletedLessonIDs: %v, %v", ids, err)
	}

	if err := progress.Uncomplete(ctx, "u1", "l1"); err != nil {
		t.Fatalf("Uncomplete: %v", err)
	}
	if err := progress.Uncomplete(ctx, "u1", "l1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProgressRepository_PutProgressUpserts(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createTestUser(t, NewUsersRepository(db.SQL), "u1", "roger@rogerbox.test")
	createTestCourse(t, NewCoursesRepository(db.SQL), "c1", "abdos", 1, true)
	progress := NewProgressRepository(db.SQL)

	if _, err := progress.GetProgress(ctx, "u1", "c1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := progress.PutProgress(ctx, domain.CourseProgress{UserID: "u1", CourseID: "c1", CompletedLessons: 1, TotalLessons: 4, UpdatedAt: testNow}); err != nil {
		t.Fatalf("PutProgress: %v", err)
	}
	p, err := progress.PutProgress(ctx, domain.CourseProgress{UserID: "u1", CourseID: "c1", CompletedLessons: 2, TotalLessons: 4, UpdatedAt: testNow.Add(time.Minute)})
	if err != nil {
		t.Fatalf("PutProgress(2): %v", err)
	}
	if p.CompletedLessons != 2 || p.Percent() != 50 {
		t.Fatalf("unexpected progress: %+v", p)
	}

	all, err := progress.ListProgress(ctx, "u1")
	if err != nil || len(all) != 1 {
		t.Fatalf("ListProgress: %d, %v", len(all), err)
	}
}

func TestProgressRepository_UsersWithProgress(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUsersRepository(db.SQL)
	courses := NewCoursesRepository(db.SQL)
	progress := NewProgressRepository(db.SQL)

	for _, id := range []string{"u1", "u2", "u3"} {
		createTestUser(t, users, id, id+"@rogerbox.test")
	}
	createTestCourse(t, courses, "c1", "abdos", 1, true)
	createTestCourse(t, courses, "c2", "cardio", 2, true)
	createTestLesson(t, courses, "l1", "c1", 1)
	createTestLesson(t, courses, "l2", "c2", 1)

	// u2 : complétion seule ; u1 : agrégat seul ; u3 : autre cours.
	if err := progress.Complete(ctx, domain.LessonCompletion{UserID: "u2", LessonID: "l1", CourseID: "c1", CompletedAt: testNow}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err := progress.PutProgress(ctx, domain.CourseProgress{UserID: "u1", CourseID: "c1", TotalLessons: 1, UpdatedAt: testNow}); err != nil {
		t.Fatalf("PutProgress: %v", err)
	}
	if err := progress.Complete(ctx, domain.LessonCompletion{UserID: "u3", LessonID: "l2", CourseID: "c2", CompletedAt: testNow}); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	ids, err := progress.UsersWithProgress(ctx, "c1")
	if err != nil {
		t.Fatalf("UsersWithProgress: %v", err)
	}
	if len(ids) != 2 || ids[0] != "u1" || ids[1] != "u2" {
		t.Fatalf("unexpected users: %v", ids)
	}
	if ids, _ := progress.UsersWithProgress(ctx, "empty"); len(ids) != 0 {
		t.Fatalf("unknown course: %v", ids)
	}
}
