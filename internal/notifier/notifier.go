// Package notifier emits notification requests. The core only records what
// should be delivered; the actual delivery channel (email, push) is an
// external collaborator reading from the same store.
package notifier

import (
	"context"
	"log/slog"

	"github.com/ledgerly/ledgerly/internal/models"
	"github.com/ledgerly/ledgerly/internal/repository"
)

// Request is one notification to be delivered to a user.
type Request struct {
	Title    string
	Body     string
	Severity models.NotificationSeverity
	Category string
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, req Request) error
}

// StoreNotifier persists notification requests for later delivery.
type StoreNotifier struct {
	repo *repository.NotificationRepository
	log  *slog.Logger
}

func New(repo *repository.NotificationRepository, log *slog.Logger) *StoreNotifier {
	return &StoreNotifier{repo: repo, log: log}
}

func (n *StoreNotifier) Notify(ctx context.Context, userID int64, req Request) error {
	notification := &models.Notification{
		UserID:   userID,
		Title:    req.Title,
		Body:     req.Body,
		Severity: req.Severity,
		Category: req.Category,
	}
	if err := n.repo.Create(ctx, notification); err != nil {
		n.log.Error("failed to record notification", "user_id", userID, "category", req.Category, "error", err)
		return err
	}
	n.log.Info("notification recorded", "user_id", userID, "category", req.Category, "severity", req.Severity)
	return nil
}
