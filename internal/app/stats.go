package app

import (
	"context"

	"github.com/rogerbox/rogerbox/internal/domain"
	"github.com/rogerbox/rogerbox/internal/ports"
)

type StatsService struct {
	repo ports.StatsRepository
}

func NewStatsService(repo ports.StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) Get(ctx context.Context) (domain.Stats, error) {
	return s.repo.Stats(ctx)
}
