package repository

import (
	"context"

	"github.com/compoundjoy/server/internal/model"
	"github.com/jmoiron/sqlx"
)

type ContributionRepository interface {
	Create(ctx context.Context, contribution *model.Contribution) error
	ByGoal(ctx context.Context, userID, goalID string) ([]*model.Contribution, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type contributionRepository struct {
	db *sqlx.DB
}

func NewContributionRepository(db *sqlx.DB) ContributionRepository {
	return &contributionRepository{db: db}
}

// Create records the contribution and adds its amount to the parent goal in
// one transaction. The goal must belong to contribution.UserID; otherwise
// nothing is written and ErrGoalNotFound is returned.
func (r *contributionRepository) Create(ctx context.Context, contribution *model.Contribution) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Increment in SQL, never read-modify-write.
	result, err := tx.ExecContext(ctx, `
		UPDATE goals
		SET current_amount = current_amount + $1
		WHERE id = $2 AND user_id = $3
	`, contribution.Amount, contribution.GoalID, contribution.UserID)
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

	_, err = tx.ExecContext(ctx, `
		INSERT INTO contributions (id, user_id, goal_id, amount, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		contribution.ID,
		contribution.UserID,
		contribution.GoalID,
		contribution.Amount,
		contribution.Note,
		contribution.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *contributionRepository) ByGoal(ctx context.Context, userID, goalID string) ([]*model.Contribution, error) {
	contributions := []*model.Contribution{}
	query := `SELECT * FROM contributions WHERE goal_id = $1 AND user_id = $2 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &contributions, query, goalID, userID)
	if err != nil {
		return nil, err
	}

	for _, c := range contributions {
		c.Amount = c.Amount.Round(model.MoneyPlaces)
	}
	return contributions, nil
}

func (r *contributionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contributions WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}
