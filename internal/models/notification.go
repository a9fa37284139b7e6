package models

import "time"

type NotificationSeverity string

const (
	SeverityInfo     NotificationSeverity = "info"
	SeverityWarning  NotificationSeverity = "warning"
	SeverityCritical NotificationSeverity = "critical"
)

// Notification is a persisted notification request. Delivery over a concrete
// channel (email, push) is the notifier collaborator's job, not ours.
type Notification struct {
	NotificationID int64                `json:"notification_id"`
	UserID         int64                `json:"user_id"`
	Title          string               `json:"title"`
	Body           string               `json:"body"`
	Severity       NotificationSeverity `json:"severity"`
	Category       string               `json:"category"`
	IsRead         bool                 `json:"is_read"`
	CreatedAt      time.Time            `json:"created_at"`
}
