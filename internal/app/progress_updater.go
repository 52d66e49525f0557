package app

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rogerbox/rogerbox/internal/ports"
)

// ProgressUpdater écoute le bus et tient à jour course_progress.
type ProgressUpdater struct {
	logger   zerolog.Logger
	bus      ports.EventBus
	progress *ProgressService
}

func NewProgressUpdater(logger zerolog.Logger, bus ports.EventBus, progress *ProgressService) *ProgressUpdater {
	return &ProgressUpdater{
		logger:   logger.With().Str("component", "progress_updater").Logger(),
		bus:      bus,
		progress: progress,
	}
}

func (u *ProgressUpdater) Run(ctx context.Context) {
	if u == nil || u.bus == nil || u.progress == nil {
		return
	}
	ch, cancel := u.bus.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			u.logger.Info().Msg("progress updater stopped")
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			u.handleEvent(ctx, evt)
		}
	}
}

func (u *ProgressUpdater) handleEvent(ctx context.Context, evt ports.Event) {
	switch evt.Topic {
	case ports.TopicLessonCompleted, ports.TopicLessonUncompleted:
		u.handleLesson(ctx, evt)
	case ports.TopicCourseUpdated:
		u.handleCourse(ctx, evt)
	}
}

// handleCourse : ajout ou suppression de leçon, le total change pour tout le monde.
func (u *ProgressUpdater) handleCourse(ctx context.Context, evt ports.Event) {
	var cc courseChange
	if err := json.Unmarshal(evt.Payload, &cc); err != nil {
		return
	}
	cc.CourseID = strings.TrimSpace(cc.CourseID)
	if cc.CourseID == "" {
		return
	}
	n, err := u.progress.RecomputeCourse(ctx, cc.CourseID)
	if err != nil {
		u.logger.Warn().Err(err).Str("course_id", cc.CourseID).Int("recomputed", n).Msg("course progress recompute failed")
		return
	}
	if n > 0 {
		u.logger.Debug().Str("course_id", cc.CourseID).Int("recomputed", n).Msg("course totals refreshed")
	}
}

func (u *ProgressUpdater) handleLesson(ctx context.Context, evt ports.Event) {
	var le LessonEvent
	if err := json.Unmarshal(evt.Payload, &le); err != nil {
		return
	}
	le.UserID = strings.TrimSpace(le.UserID)
	le.CourseID = strings.TrimSpace(le.CourseID)
	if le.UserID == "" || le.CourseID == "" {
		return
	}

	p, err := u.progress.Recompute(ctx, le.UserID, le.CourseID)
	if err != nil {
		u.logger.Warn().Err(err).Str("user_id", le.UserID).Str("course_id", le.CourseID).Msg("progress recompute failed")
		return
	}
	u.logger.Debug().
		Str("user_id", le.UserID).
		Str("course_id", le.CourseID).
		Int("percent", p.Percent).
		Msg("course progress updated")
}
