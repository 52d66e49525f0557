package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

type memComplements struct {
	mu    sync.Mutex
	byID  map[string]domain.Complement
	err   error
	calls []domain.ContentSlot
}

func newMemComplements(items ...domain.Complement) *memComplements {
	r := &memComplements{byID: map[string]domain.Complement{}}
	for _, c := range items {
		r.byID[c.ID] = c
	}
	return r
}

func (r *memComplements) FindPublished(ctx context.Context, slot domain.ContentSlot) (domain.Complement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, slot)
	if r.err != nil {
		return domain.Complement{}, r.err
	}
	for _, c := range r.byID {
		if c.ContentSlot == slot && c.IsPublished {
			return c, nil
		}
	}
	return domain.Complement{}, ports.ErrNotFound
}

func (r *memComplements) slotTaken(c domain.Complement) bool {
	for _, other := range r.byID {
		if other.ID != c.ID && other.ContentSlot == c.ContentSlot {
			return true
		}
	}
	return false
}

func (r *memComplements) Create(ctx context.Context, c domain.Complement) (domain.Complement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slotTaken(c) {
		return domain.Complement{}, ports.ErrConflict
	}
	r.byID[c.ID] = c
	return c, nil
}

func (r *memComplements) Get(ctx context.Context, id string) (domain.Complement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return domain.Complement{}, ports.ErrNotFound
	}
	return c, nil
}

func (r *memComplements) List(ctx context.Context, year, week int) ([]domain.Complement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Complement{}
	for _, c := range r.byID {
		if (year == 0 || c.Year == year) && (week == 0 || c.WeekNumber == week) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

func (r *memComplements) Update(ctx context.Context, c domain.Complement) (domain.Complement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; !ok {
		return domain.Complement{}, ports.ErrNotFound
	}
	if r.slotTaken(c) {
		return domain.Complement{}, ports.ErrConflict
	}
	r.byID[c.ID] = c
	return c, nil
}

func (r *memComplements) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memComplements) Due(ctx context.Context, now time.Time, limit int) ([]domain.Complement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Complement{}
	for _, c := range r.byID {
		if c.IsDue(now) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishAt.Before(out[j].PublishAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memComplements) MarkPublished(ctx context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok || c.IsPublished {
		return false, nil
	}
	c.IsPublished = true
	c.UpdatedAt = at
	r.byID[id] = c
	return true, nil
}

type memUsers struct {
	mu       sync.Mutex
	byID     map[string]domain.User
	profiles map[string]domain.Profile
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]domain.User{}, profiles: map[string]domain.Profile{}}
}

func (r *memUsers) Create(ctx context.Context, u domain.User, p domain.Profile) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.byID {
		if other.Email == u.Email {
			return domain.User{}, ports.ErrConflict
		}
	}
	r.byID[u.ID] = u
	r.profiles[u.ID] = p
	return u, nil
}

func (r *memUsers) Get(ctx context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, ports.ErrNotFound
	}
	return u, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == domain.NormalizeEmail(email) {
			return u, nil
		}
	}
	return domain.User{}, ports.ErrNotFound
}

func (r *memUsers) SetRole(ctx context.Context, id string, role domain.Role, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ports.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = at
	r.byID[id] = u
	return nil
}

func (r *memUsers) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return domain.Profile{}, ports.ErrNotFound
	}
	return p, nil
}

func (r *memUsers) PutProfile(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = p
	return p, nil
}

type memCourses struct {
	mu      sync.Mutex
	courses map[string]domain.Course
	lessons map[string]domain.Lesson
	lists   int
}

func newMemCourses() *memCourses {
	return &memCourses{courses: map[string]domain.Course{}, lessons: map[string]domain.Lesson{}}
}

func (r *memCourses) Create(ctx context.Context, c domain.Course) (domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.courses {
		if other.Slug == c.Slug {
			return domain.Course{}, ports.ErrConflict
		}
	}
	r.courses[c.ID] = c
	return c, nil
}

func (r *memCourses) Get(ctx context.Context, id string) (domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return domain.Course{}, ports.ErrNotFound
	}
	return c, nil
}

func (r *memCourses) GetBySlug(ctx context.Context, slug string) (domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.courses {
		if c.Slug == slug {
			return c, nil
		}
	}
	return domain.Course{}, ports.ErrNotFound
}

func (r *memCourses) List(ctx context.Context, publishedOnly bool) ([]domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	out := []domain.Course{}
	for _, c := range r.courses {
		if !publishedOnly || c.IsPublished {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memCourses) Update(ctx context.Context, c domain.Course) (domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[c.ID]; !ok {
		return domain.Course{}, ports.ErrNotFound
	}
	r.courses[c.ID] = c
	return c, nil
}

func (r *memCourses) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *memCourses) CreateLesson(ctx context.Context, l domain.Lesson) (domain.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lessons[l.ID] = l
	return l, nil
}

func (r *memCourses) GetLesson(ctx context.Context, id string) (domain.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lessons[id]
	if !ok {
		return domain.Lesson{}, ports.ErrNotFound
	}
	return l, nil
}

func (r *memCourses) ListLessons(ctx context.Context, courseID string) ([]domain.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Lesson{}
	for _, l := range r.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memCourses) UpdateLesson(ctx context.Context, l domain.Lesson) (domain.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lessons[l.ID]; !ok {
		return domain.Lesson{}, ports.ErrNotFound
	}
	r.lessons[l.ID] = l
	return l, nil
}

func (r *memCourses) DeleteLesson(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lessons[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.lessons, id)
	return nil
}

func (r *memCourses) CountLessons(ctx context.Context, courseID string) (int, error) {
	lessons, _ := r.ListLessons(ctx, courseID)
	return len(lessons), nil
}

type memProgress struct {
	mu          sync.Mutex
	completions map[[2]string]domain.LessonCompletion
	progress    map[[2]string]domain.CourseProgress
}

func newMemProgress() *memProgress {
	return &memProgress{completions: map[[2]string]domain.LessonCompletion{}, progress: map[[2]string]domain.CourseProgress{}}
}

func (r *memProgress) Complete(ctx context.Context, c domain.LessonCompletion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{c.UserID, c.LessonID}
	if _, ok := r.completions[key]; !ok {
		r.completions[key] = c
	}
	return nil
}

func (r *memProgress) Uncomplete(ctx context.Context, userID, lessonID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{userID, lessonID}
	if _, ok := r.completions[key]; !ok {
		return ports.ErrNotFound
	}
	delete(r.completions, key)
	return nil
}

func (r *memProgress) CompletedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for _, c := range r.completions {
		if c.UserID == userID && c.CourseID == courseID {
			out = append(out, c.LessonID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *memProgress) CountCompleted(ctx context.Context, userID, courseID string) (int, error) {
	ids, _ := r.CompletedLessonIDs(ctx, userID, courseID)
	return len(ids), nil
}

func (r *memProgress) PutProgress(ctx context.Context, p domain.CourseProgress) (domain.CourseProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress[[2]string{p.UserID, p.CourseID}] = p
	return p, nil
}

func (r *memProgress) GetProgress(ctx context.Context, userID, courseID string) (domain.CourseProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.progress[[2]string{userID, courseID}]
	if !ok {
		return domain.CourseProgress{}, ports.ErrNotFound
	}
	return p, nil
}

func (r *memProgress) UsersWithProgress(ctx context.Context, courseID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]struct{}{}
	for _, c := range r.completions {
		if c.CourseID == courseID {
			seen[c.UserID] = struct{}{}
		}
	}
	for k := range r.progress {
		if k[1] == courseID {
			seen[k[0]] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (r *memProgress) ListProgress(ctx context.Context, userID string) ([]domain.CourseProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.CourseProgress{}
	for k, p := range r.progress {
		if k[0] == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memWeights struct {
	mu      sync.Mutex
	entries []domain.WeightEntry
}

func (r *memWeights) Upsert(ctx context.Context, e domain.WeightEntry) (domain.WeightEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.entries {
		if existing.UserID == e.UserID && existing.RecordedOn.Equal(e.RecordedOn) {
			existing.WeightKg = e.WeightKg
			existing.Note = e.Note
			r.entries[i] = existing
			return existing, nil
		}
	}
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *memWeights) List(ctx context.Context, userID string, limit int) ([]domain.WeightEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.WeightEntry{}
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedOn.After(out[j].RecordedOn) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memWeights) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == id && e.UserID == userID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return ports.ErrNotFound
}

type memBanners struct {
	mu   sync.Mutex
	byID map[string]domain.Banner
}

func newMemBanners() *memBanners { return &memBanners{byID: map[string]domain.Banner{}} }

func (r *memBanners) Create(ctx context.Context, b domain.Banner) (domain.Banner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[b.ID] = b
	return b, nil
}

func (r *memBanners) Get(ctx context.Context, id string) (domain.Banner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return domain.Banner{}, ports.ErrNotFound
	}
	return b, nil
}

func (r *memBanners) List(ctx context.Context) ([]domain.Banner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Banner{}
	for _, b := range r.byID {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memBanners) Update(ctx context.Context, b domain.Banner) (domain.Banner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ID]; !ok {
		return domain.Banner{}, ports.ErrNotFound
	}
	r.byID[b.ID] = b
	return b, nil
}

func (r *memBanners) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// recordingBus garde les événements publiés.
type recordingBus struct {
	mu     sync.Mutex
	events []ports.Event
}

func (b *recordingBus) Publish(topic string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ports.Event{Topic: topic, Payload: payload})
}

func (b *recordingBus) Subscribe() (<-chan ports.Event, func()) {
	ch := make(chan ports.Event)
	return ch, func() {}
}

func (b *recordingBus) topics() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Topic)
	}
	return out
}

type memCache struct {
	courses     []domain.Course
	ok          bool
	invalidated int
}

func (c *memCache) GetCourses(context.Context) ([]domain.Course, bool) { return c.courses, c.ok }
func (c *memCache) SetCourses(_ context.Context, courses []domain.Course) {
	c.courses, c.ok = courses, true
}
func (c *memCache) Invalidate(context.Context) {
	c.courses, c.ok = nil, false
	c.invalidated++
}
