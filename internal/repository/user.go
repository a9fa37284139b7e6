package repository

import (
	"context"

	"github.com/ledgerly/ledgerly/internal/database"
	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

const userColumns = `user_id, name, email, password_hash, avatar_url, is_premium, plan_type,
	 premium_expires_at, is_trial, trial_ends_at, billing_customer_id, billing_subscription_id, created_at`

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.PlanType == "" {
		user.PlanType = models.PlanFree
	}
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO "user" (name, email, password_hash, plan_type, is_trial, trial_ends_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING user_id, created_at`,
		user.Name, user.Email, user.PasswordHash, user.PlanType, user.IsTrial, user.TrialEndsAt,
	).Scan(&user.UserID, &user.CreatedAt)
	return normalizeErr(err)
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	user := &models.User{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM "user" WHERE user_id = $1`,
		userID,
	).Scan(userScanTargets(user)...)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM "user" WHERE email = $1`,
		email,
	).Scan(userScanTargets(user)...)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE "user" SET password_hash = $1 WHERE user_id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return normalizeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return finerr.NotFoundf("user %d", userID)
	}
	return nil
}

func (r *UserRepository) UpdateAvatarURL(ctx context.Context, userID int64, avatarURL string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE "user" SET avatar_url = $1 WHERE user_id = $2`,
		avatarURL, userID,
	)
	if err != nil {
		return normalizeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return finerr.NotFoundf("user %d", userID)
	}
	return nil
}

// Delete removes the account; transactions, goals, budgets and notifications
// go with it through the schema's cascades.
func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM "user" WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return normalizeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return finerr.NotFoundf("user %d", userID)
	}
	return nil
}

func userScanTargets(user *models.User) []any {
	return []any{
		&user.UserID, &user.Name, &user.Email, &user.PasswordHash, &user.AvatarURL,
		&user.IsPremium, &user.PlanType, &user.PremiumExpiresAt, &user.IsTrial, &user.TrialEndsAt,
		&user.BillingCustomerID, &user.BillingSubscriptionID, &user.CreatedAt,
	}
}
