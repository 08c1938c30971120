package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/repository"
)

// StatsService serves dashboard KPIs with a cache-aside layer on top of the
// pure aggregator.
type StatsService struct {
	cases   repository.CaseRepository
	history repository.CaseHistoryRepository
	cache   repository.StatsCacheRepository
	logger  *zap.Logger
	ttl     time.Duration
}

// NewStatsService constructs the service.
func NewStatsService(cases repository.CaseRepository, history repository.CaseHistoryRepository, cache repository.StatsCacheRepository, logger *zap.Logger, ttl time.Duration) *StatsService {
	return &StatsService{
		cases:   cases,
		history: history,
		cache:   cache,
		logger:  logger,
		ttl:     ttl,
	}
}

// Dashboard computes (or returns the cached) operational KPIs.
func (s *StatsService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	cases, err := loadCasesWithHistory(ctx, s.cases, s.history)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	stats := domain.ComputeStats(cases)

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats, s.ttl); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// Agenda returns confirmed visits grouped per day.
func (s *StatsService) Agenda(ctx context.Context) ([]domain.AgendaGroup, error) {
	cases, err := s.cases.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.GroupAgenda(cases), nil
}

// loadCasesWithHistory joins the case rows with their audit trails so the
// pure projections can run over complete aggregates.
func loadCasesWithHistory(ctx context.Context, cases repository.CaseRepository, history repository.CaseHistoryRepository) ([]domain.Case, error) {
	all, err := cases.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	trails, err := history.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		all[i].History = trails[all[i].ID]
	}
	return all, nil
}
