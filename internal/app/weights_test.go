package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerbox/rogerbox/internal/domain"
)

func TestWeightService_RecordAndSummary(t *testing.T) {
	users := newMemUsers()
	ctx := context.Background()
	if _, err := users.Create(ctx, domain.User{ID: "u1", Email: "roger@rogerbox.test"}, domain.Profile{UserID: "u1", GoalWeightKg: 75}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	weights := &memWeights{}
	svc := NewWeightService(weights, users, time.UTC)
	svc.now = fixedNow(time.Date(2024, time.March, 10, 7, 0, 0, 0, time.UTC))
	id := domain.Identity{UserID: "u1"}

	if _, err := svc.Record(ctx, id, WeightInput{WeightKg: 82.3, RecordedOn: "2024-03-01"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	today, err := svc.Record(ctx, id, WeightInput{WeightKg: 80.9})
	if err != nil {
		t.Fatalf("Record(today): %v", err)
	}
	if today.RecordedOn != "2024-03-10" {
		t.Fatalf("default day: got %s", today.RecordedOn)
	}
	again, err := svc.Record(ctx, id, WeightInput{WeightKg: 80.4, Note: "après footing"})
	if err != nil {
		t.Fatalf("Record(again): %v", err)
	}
	if again.ID != today.ID {
		t.Fatalf("same-day record should replace the entry")
	}

	list, err := svc.List(ctx, id, 0)
	if err != nil || len(list) != 2 || list[0].WeightKg != 80.4 {
		t.Fatalf("List: %+v, %v", list, err)
	}

	sum, err := svc.Summary(ctx, id)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Entries != 2 || sum.DeltaKg != -1.9 || sum.RemainingKg != 5.4 || sum.GoalWeightKg != 75 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.First == nil || sum.First.RecordedOn != "2024-03-01" {
		t.Fatalf("first entry: %+v", sum.First)
	}
}

func TestWeightService_Rejects(t *testing.T) {
	svc := NewWeightService(&memWeights{}, newMemUsers(), time.UTC)
	svc.now = fixedNow(time.Date(2024, time.March, 10, 7, 0, 0, 0, time.UTC))
	ctx := context.Background()
	id := domain.Identity{UserID: "u1"}

	for _, in := range []WeightInput{
		{WeightKg: 0},
		{WeightKg: 19.9},
		{WeightKg: 500},
		{WeightKg: 80, RecordedOn: "10/03/2024"},
		{WeightKg: 80, RecordedOn: "2024-03-11"},
	} {
		if _, err := svc.Record(ctx, id, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
	if err := svc.Delete(ctx, id, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	sum, err := svc.Summary(ctx, id)
	if err != nil || sum.Entries != 0 || sum.Latest != nil {
		t.Fatalf("empty summary: %+v, %v", sum, err)
	}
}
