package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PublisherObserver compte les publications automatiques (métriques).
type PublisherObserver interface {
	ObserveScheduledPublication()
}

// ComplementPublisher publie à intervalle régulier les compléments programmés (publishAt).
type ComplementPublisher struct {
	logger      zerolog.Logger
	complements *ComplementService
	observer    PublisherObserver

	TickInterval time.Duration
	BatchSize    int
	Now          func() time.Time
}

func NewComplementPublisher(logger zerolog.Logger, complements *ComplementService, observer PublisherObserver) *ComplementPublisher {
	return &ComplementPublisher{
		logger:       logger.With().Str("component", "complement_publisher").Logger(),
		complements:  complements,
		observer:     observer,
		TickInterval: time.Minute,
		BatchSize:    20,
		Now:          time.Now,
	}
}

func (p *ComplementPublisher) Run(ctx context.Context) {
	interval := p.TickInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Rattrape au démarrage ce qui est devenu dû pendant l'arrêt.
	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("complement publisher stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *ComplementPublisher) tick(ctx context.Context) int {
	if p.complements == nil {
		return 0
	}
	limit := p.BatchSize
	if limit <= 0 {
		limit = 20
	}

	published, err := p.complements.PublishDue(ctx, p.Now().UTC(), limit)
	for _, c := range published {
		p.logger.Info().
			Str("complement_id", c.ID).
			Int("week", c.WeekNumber).
			Int("year", c.Year).
			Int("day", c.DayOfWeek).
			Msg("complement published")
		if p.observer != nil {
			p.observer.ObserveScheduledPublication()
		}
	}
	if err != nil && ctx.Err() == nil {
		p.logger.Error().Err(err).Msg("scheduled publication failed")
	}
	return len(published)
}
