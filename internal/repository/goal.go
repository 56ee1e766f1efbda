package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/compoundjoy/server/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	GoalSortRecent   = "recent"
	GoalSortProgress = "progress"
	GoalSortName     = "name"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, goalID string) (*model.Goal, error)
	Goals(ctx context.Context, userID, sortBy string) ([]*model.Goal, error)
	Delete(ctx context.Context, userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, name, description, target_amount, current_amount, icon, annual_return_rate, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.Description,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Icon,
		goal.AnnualReturnRate,
		goal.CreatedAt,
	)

	return err
}

// ByID loads a goal regardless of owner. Ownership is checked by the caller
// against the returned record.
func (r *goalRepository) ByID(ctx context.Context, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1`

	err := r.db.GetContext(ctx, goal, query, goalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	roundGoal(goal)
	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context, userID, sortBy string) ([]*model.Goal, error) {
	goals := []*model.Goal{}

	// Validate and build ORDER BY clause
	var orderBy string
	switch sortBy {
	case GoalSortProgress:
		// * 1.0 keeps SQLite from dividing whole amounts as integers.
		orderBy = "ORDER BY current_amount * 1.0 / target_amount DESC, created_at DESC"
	case GoalSortName:
		orderBy = "ORDER BY LOWER(name) ASC"
	default: // GoalSortRecent or empty
		orderBy = "ORDER BY created_at DESC"
	}

	query := `SELECT * FROM goals WHERE user_id = $1 ` + orderBy

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	for _, goal := range goals {
		roundGoal(goal)
	}
	return goals, nil
}

// Delete removes the goal's contributions and then the goal in one
// transaction. Nothing is removed when the goal is missing or owned by
// someone else.
func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM contributions WHERE goal_id = $1`, goalID)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return tx.Commit()
}

// SQLite keeps NUMERIC values as REAL, so a running total of cent amounts can
// read back with float noise. Rounding to cents restores the exact value.
func roundGoal(goal *model.Goal) {
	goal.TargetAmount = goal.TargetAmount.Round(model.MoneyPlaces)
	goal.CurrentAmount = goal.CurrentAmount.Round(model.MoneyPlaces)
}
