package models

import "time"

type PlanType string

const (
	PlanFree    PlanType = "free"
	PlanMonthly PlanType = "monthly"
	PlanYearly  PlanType = "yearly"
)

type User struct {
	UserID                int64      `json:"user_id"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email"`
	PasswordHash          string     `json:"-"`
	AvatarURL             string     `json:"avatar_url"`
	IsPremium             bool       `json:"is_premium"`
	PlanType              PlanType   `json:"plan_type"`
	PremiumExpiresAt      *time.Time `json:"premium_expires_at"`
	IsTrial               bool       `json:"is_trial"`
	TrialEndsAt           *time.Time `json:"trial_ends_at"`
	BillingCustomerID     string     `json:"-"`
	BillingSubscriptionID string     `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
}

// IsPlanActive reports whether the user currently has paid access: a premium
// subscription that has not expired, or a trial that has not elapsed.
func (u *User) IsPlanActive(now time.Time) bool {
	if u.IsPremium && (u.PremiumExpiresAt == nil || u.PremiumExpiresAt.After(now)) {
		return true
	}
	if u.IsTrial && u.TrialEndsAt != nil && u.TrialEndsAt.After(now) {
		return true
	}
	return false
}
