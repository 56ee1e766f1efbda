package service

import (
	"context"

	"github.com/compoundjoy/server/internal/model"
	"github.com/compoundjoy/server/internal/repository"
	"github.com/shopspring/decimal"
)

// StatsService derives per-user aggregates from the ledger on every call.
type StatsService struct {
	goalRepo         repository.GoalRepository
	contributionRepo repository.ContributionRepository
	guard            *Guard
}

func NewStatsService(
	goalRepo repository.GoalRepository,
	contributionRepo repository.ContributionRepository,
	guard *Guard,
) *StatsService {
	return &StatsService{
		goalRepo:         goalRepo,
		contributionRepo: contributionRepo,
		guard:            guard,
	}
}

func (s *StatsService) TotalSaved(ctx context.Context) (decimal.Decimal, error) {
	userID, err := s.guard.Caller(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	goals, err := s.goalRepo.Goals(ctx, userID, repository.GoalSortRecent)
	if err != nil {
		return decimal.Zero, err
	}

	return sumCurrent(goals), nil
}

func (s *StatsService) Stats(ctx context.Context) (model.Stats, error) {
	userID, err := s.guard.Caller(ctx)
	if err != nil {
		return model.Stats{}, err
	}

	return s.statsFor(ctx, userID)
}

func (s *StatsService) statsFor(ctx context.Context, userID string) (model.Stats, error) {
	goals, err := s.goalRepo.Goals(ctx, userID, repository.GoalSortRecent)
	if err != nil {
		return model.Stats{}, err
	}

	count, err := s.contributionRepo.CountByUser(ctx, userID)
	if err != nil {
		return model.Stats{}, err
	}

	stats := model.Stats{
		TotalSaved:         sumCurrent(goals),
		TotalGoals:         len(goals),
		TotalContributions: count,
	}
	for _, goal := range goals {
		if goal.Completed() {
			stats.CompletedGoals++
		}
	}

	return stats, nil
}

func sumCurrent(goals []*model.Goal) decimal.Decimal {
	total := decimal.Zero
	for _, goal := range goals {
		total = total.Add(goal.CurrentAmount)
	}
	return total
}
