package repository

import (
	"context"

	"github.com/ledgerly/ledgerly/internal/database"
	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

type SavingsGoalRepository struct {
	db *database.DB
}

func NewSavingsGoalRepository(db *database.DB) *SavingsGoalRepository {
	return &SavingsGoalRepository{db: db}
}

// Create inserts a goal; the (user_id, month, year) unique constraint turns a
// second goal for the same month into finerr.ErrConflict.
func (r *SavingsGoalRepository) Create(ctx context.Context, g *models.SavingsGoal) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO savings_goal (user_id, target_amount, current_amount, month, year, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING goal_id, created_at`,
		g.UserID, g.TargetAmount, g.CurrentAmount, g.Month, g.Year, g.Description,
	).Scan(&g.GoalID, &g.CreatedAt)
	return normalizeErr(err)
}

func (r *SavingsGoalRepository) GetByMonth(ctx context.Context, userID int64, month, year int) (*models.SavingsGoal, error) {
	g := &models.SavingsGoal{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT goal_id, user_id, target_amount, current_amount, month, year, description, created_at
		 FROM savings_goal WHERE user_id = $1 AND month = $2 AND year = $3`,
		userID, month, year,
	).Scan(&g.GoalID, &g.UserID, &g.TargetAmount, &g.CurrentAmount, &g.Month, &g.Year, &g.Description, &g.CreatedAt)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return g, nil
}

func (r *SavingsGoalRepository) ListByUser(ctx context.Context, userID int64) ([]*models.SavingsGoal, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT goal_id, user_id, target_amount, current_amount, month, year, description, created_at
		 FROM savings_goal WHERE user_id = $1 ORDER BY year DESC, month DESC`,
		userID,
	)
	if err != nil {
		return nil, normalizeErr(err)
	}
	defer rows.Close()

	var goals []*models.SavingsGoal
	for rows.Next() {
		g := &models.SavingsGoal{}
		if err := rows.Scan(&g.GoalID, &g.UserID, &g.TargetAmount, &g.CurrentAmount, &g.Month, &g.Year, &g.Description, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SavingsGoalRepository) Update(ctx context.Context, g *models.SavingsGoal) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE savings_goal SET target_amount = $1, current_amount = $2, description = $3
		 WHERE goal_id = $4 AND user_id = $5`,
		g.TargetAmount, g.CurrentAmount, g.Description, g.GoalID, g.UserID,
	)
	if err != nil {
		return normalizeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return finerr.NotFoundf("savings goal %d", g.GoalID)
	}
	return nil
}

func (r *SavingsGoalRepository) Delete(ctx context.Context, goalID, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM savings_goal WHERE goal_id = $1 AND user_id = $2`,
		goalID, userID,
	)
	if err != nil {
		return normalizeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return finerr.NotFoundf("savings goal %d", goalID)
	}
	return nil
}
