package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/compoundjoy/server/internal/model"
	"github.com/compoundjoy/server/internal/repository"
	"github.com/compoundjoy/server/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalInput carries the caller-supplied fields of a new goal. The owner is
// never part of the input.
type GoalInput struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	TargetAmount     decimal.Decimal `json:"target_amount"`
	Icon             string          `json:"icon"`
	AnnualReturnRate *float64        `json:"annual_return_rate"`
}

type GoalService struct {
	repo             repository.GoalRepository
	contributionRepo repository.ContributionRepository
	guard            *Guard
}

func NewGoalService(
	repo repository.GoalRepository,
	contributionRepo repository.ContributionRepository,
	guard *Guard,
) *GoalService {
	return &GoalService{
		repo:             repo,
		contributionRepo: contributionRepo,
		guard:            guard,
	}
}

func (s *GoalService) Create(ctx context.Context, input GoalInput) (*model.Goal, error) {
	userID, err := s.guard.Caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateGoalName(input.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoal, err)
	}
	if err := validation.ValidateAmount(input.TargetAmount); err != nil {
		return nil, fmt.Errorf("%w: target %v", ErrInvalidAmount, err)
	}

	rate := model.DefaultAnnualReturnRate
	if input.AnnualReturnRate != nil {
		if err := validation.ValidateRate(*input.AnnualReturnRate); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGoal, err)
		}
		rate = *input.AnnualReturnRate
	}

	icon := strings.TrimSpace(input.Icon)
	if icon == "" {
		icon = model.DefaultGoalIcon
	}

	goal := &model.Goal{
		ID:               uuid.New().String(),
		UserID:           userID,
		Name:             strings.TrimSpace(input.Name),
		Description:      strings.TrimSpace(input.Description),
		TargetAmount:     input.TargetAmount,
		CurrentAmount:    decimal.Zero,
		Icon:             icon,
		AnnualReturnRate: rate,
		CreatedAt:        time.Now(),
	}

	err = s.repo.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

// Goal returns the caller's goal, or nil without error when it does not
// exist or belongs to someone else.
func (s *GoalService) Goal(ctx context.Context, goalID string) (*model.Goal, error) {
	userID, err := s.guard.Caller(ctx)
	if err != nil {
		return nil, err
	}

	goal, err := s.ownedGoal(ctx, userID, goalID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (s *GoalService) Goals(ctx context.Context, sortBy string) ([]*model.Goal, error) {
	userID, err := s.guard.Caller(ctx)
	if err != nil {
		return nil, err
	}

	return s.repo.Goals(ctx, userID, sortBy)
}

func (s *GoalService) Delete(ctx context.Context, goalID string) error {
	userID, err := s.guard.Caller(ctx)
	if err != nil {
		return err
	}

	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return err
	}

	err = s.repo.Delete(ctx, userID, goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return ErrNotFound
	}
	if err != nil {
		slog.Error("failed to delete goal", "error", err, "user_id", userID, "goal_id", goalID)
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	return nil
}

// AddContribution appends a contribution and increments the goal's running
// total atomically. The amount is checked before any lookup.
func (s *GoalService) AddContribution(ctx context.Context, goalID string, amount decimal.Decimal, note string) (*model.Contribution, error) {
	userID, err := s.guard.Caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}

	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return nil, err
	}

	contribution := &model.Contribution{
		ID:        uuid.New().String(),
		UserID:    userID,
		GoalID:    goalID,
		Amount:    amount,
		Note:      strings.TrimSpace(note),
		CreatedAt: time.Now(),
	}

	err = s.contributionRepo.Create(ctx, contribution)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		slog.Error("failed to add contribution", "error", err, "user_id", userID, "goal_id", goalID)
		return nil, fmt.Errorf("failed to add contribution: %w", err)
	}

	return contribution, nil
}

// Contributions lists the caller's contributions to a goal, newest first.
// A goal the caller does not own yields an empty list.
func (s *GoalService) Contributions(ctx context.Context, goalID string) ([]*model.Contribution, error) {
	userID, err := s.guard.Caller(ctx)
	if err != nil {
		return nil, err
	}

	return s.contributionRepo.ByGoal(ctx, userID, goalID)
}

func (s *GoalService) ownedGoal(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.guard.Authorize(userID, goal.UserID); err != nil {
		return nil, err
	}

	return goal, nil
}
