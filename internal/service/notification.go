package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ripplegram/backend/internal/models"
	"github.com/ripplegram/backend/internal/repositories"
	"github.com/ripplegram/backend/pkg/log"
)

// NotificationService records follow/like/comment side effects and serves
// the recipient's feed.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationService {
	return &NotificationService{
		notifications: notifRepo,
		users:         userRepo,
	}
}

// Emit creates a notification record. Self-actions never notify: when from
// equals to this is a no-op. Emission is fire-and-forget — a failure is
// logged and never fails the mutation that triggered it.
func (s *NotificationService) Emit(ctx context.Context, from, to primitive.ObjectID, kind string, postID, commentID *primitive.ObjectID) {
	if from == to {
		return
	}

	notification := &models.Notification{
		From:    from,
		To:      to,
		Type:    kind,
		Post:    postID,
		Comment: commentID,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		log.L().Error().Err(err).
			Str("type", kind).
			Str("from", from.Hex()).
			Str("to", to.Hex()).
			Msg("failed to create notification")
	}
}

// List returns the recipient's notifications, newest first, each expanded
// with the actor summary.
func (s *NotificationService) List(ctx context.Context, recipientID primitive.ObjectID, limit int64) ([]models.ExpandedNotification, error) {
	notifications, err := s.notifications.GetByRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, err
	}

	actorIDs := make([]primitive.ObjectID, 0, len(notifications))
	seen := make(map[primitive.ObjectID]bool)
	for _, n := range notifications {
		if !seen[n.From] {
			seen[n.From] = true
			actorIDs = append(actorIDs, n.From)
		}
	}

	actors, err := s.users.GetByIDs(ctx, actorIDs)
	if err != nil {
		return nil, err
	}
	summaries := make(map[primitive.ObjectID]models.UserSummary, len(actors))
	for i := range actors {
		summaries[actors[i].ID] = actors[i].Summary()
	}

	expanded := make([]models.ExpandedNotification, len(notifications))
	for i, n := range notifications {
		expanded[i] = models.ExpandedNotification{Notification: n, Actor: summaries[n.From]}
	}
	return expanded, nil
}

// UnreadCount returns the recipient's unread notification count.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return s.notifications.CountUnread(ctx, recipientID)
}

// MarkRead marks one of the recipient's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID primitive.ObjectID) error {
	if err := s.notifications.MarkAsRead(ctx, notificationID, recipientID); err != nil {
		if err == repositories.ErrNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}
