package repository

import (
	"context"

	"github.com/ledgerly/ledgerly/internal/database"
	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.Severity == "" {
		n.Severity = models.SeverityInfo
	}
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO notification (user_id, title, body, severity, category)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING notification_id, created_at`,
		n.UserID, n.Title, n.Body, n.Severity, n.Category,
	).Scan(&n.NotificationID, &n.CreatedAt)
	return normalizeErr(err)
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Notification, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT notification_id, user_id, title, body, severity, category, is_read, created_at
		 FROM notification WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, normalizeErr(err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.NotificationID, &n.UserID, &n.Title, &n.Body, &n.Severity, &n.Category, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE notification SET is_read = TRUE WHERE notification_id = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return normalizeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return finerr.NotFoundf("notification %d", notificationID)
	}
	return nil
}
