package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rogerbox/rogerbox/internal/ports"
)

func fixedNow(t time.Time) func() time.Time { return func() time.Time { return t } }

func validComplementInput() ComplementInput {
	return ComplementInput{
		WeekNumber: 10,
		Year:       2024,
		DayOfWeek:  5,
		Title:      "  Cardio du vendredi ",
		VideoURL:   "https://videos.rogerbox.test/fri.mp4",
	}
}

func TestComplementService_CreateValidates(t *testing.T) {
	svc := NewComplementService(newMemComplements(), nil)
	ctx := context.Background()

	in := validComplementInput()
	in.DayOfWeek = 8
	if _, err := svc.Create(ctx, in); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot, got %v", err)
	}

	in = validComplementInput()
	in.VideoURL = "not a url"
	_, err := svc.Create(ctx, in)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var ie *InputError
	if !errors.As(err, &ie) || ie.Fields["videoUrl"] != "url" {
		t.Fatalf("expected videoUrl field error, got %v", err)
	}
}

func TestComplementService_CreatePublishesEventAndDetectsConflict(t *testing.T) {
	bus := &recordingBus{}
	svc := NewComplementService(newMemComplements(), bus)
	svc.now = fixedNow(time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	in := validComplementInput()
	in.IsPublished = true
	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Title != "Cardio du vendredi" || created.ID == "" {
		t.Fatalf("unexpected dto: %+v", created)
	}
	if topics := bus.topics(); len(topics) != 1 || topics[0] != ports.TopicComplementPublished {
		t.Fatalf("expected one complement.published event, got %v", topics)
	}

	if _, err := svc.Create(ctx, in); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestComplementService_UpdatePublishesOnlyOnTransition(t *testing.T) {
	bus := &recordingBus{}
	svc := NewComplementService(newMemComplements(), bus)
	ctx := context.Background()

	created, err := svc.Create(ctx, validComplementInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(bus.topics()) != 0 {
		t.Fatalf("draft must not emit events")
	}

	in := validComplementInput()
	in.IsPublished = true
	if _, err := svc.Update(ctx, created.ID, in); err != nil {
		t.Fatalf("Update: %v", err)
	}
	in.Title = "Nouveau titre"
	if _, err := svc.Update(ctx, created.ID, in); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if n := len(bus.topics()); n != 1 {
		t.Fatalf("expected 1 event, got %d", n)
	}

	if _, err := svc.Update(ctx, "missing", in); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type publicationCounter struct{ n int }

func (c *publicationCounter) ObserveScheduledPublication() { c.n++ }

func TestComplementPublisher_PublishesDueOnce(t *testing.T) {
	now := time.Date(2024, time.March, 4, 6, 0, 0, 0, time.UTC)
	store := newMemComplements()
	bus := &recordingBus{}
	svc := NewComplementService(store, bus)
	ctx := context.Background()

	due := validComplementInput()
	past := now.Add(-time.Minute)
	due.PublishAt = &past
	if _, err := svc.Create(ctx, due); err != nil {
		t.Fatalf("Create: %v", err)
	}
	later := validComplementInput()
	later.DayOfWeek = 4
	future := now.Add(time.Hour)
	later.PublishAt = &future
	if _, err := svc.Create(ctx, later); err != nil {
		t.Fatalf("Create: %v", err)
	}

	counter := &publicationCounter{}
	p := NewComplementPublisher(zerolog.Nop(), svc, counter)
	p.Now = fixedNow(now)

	if n := p.tick(ctx); n != 1 {
		t.Fatalf("first tick: want 1 published, got %d", n)
	}
	if n := p.tick(ctx); n != 0 {
		t.Fatalf("second tick: want 0 published, got %d", n)
	}
	if counter.n != 1 {
		t.Fatalf("observer: got %d", counter.n)
	}

	topics := bus.topics()
	if len(topics) != 1 || topics[0] != ports.TopicComplementPublished {
		t.Fatalf("events: %v", topics)
	}
	var payload ComplementDTO
	if err := json.Unmarshal(bus.events[0].Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if !payload.IsPublished || payload.DayOfWeek != 5 {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	// Publié : désormais servi par le scheduler.
	got, err := NewDailyContentScheduler(zerolog.Nop(), store, time.UTC).
		ResolveSlot(ctx, payload.ContentSlot())
	if err != nil || got.Item == nil {
		t.Fatalf("published complement not served: %+v, %v", got, err)
	}
}

func TestComplementPublisher_RunStopsWithContext(t *testing.T) {
	p := NewComplementPublisher(zerolog.Nop(), NewComplementService(newMemComplements(), nil), nil)
	p.TickInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publisher did not stop")
	}
}
