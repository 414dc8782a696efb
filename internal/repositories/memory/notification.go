package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ripplegram/backend/internal/models"
	"github.com/ripplegram/backend/internal/repositories"
)

// NotificationRepository is an in-memory repositories.NotificationRepository.
type NotificationRepository struct {
	mu            sync.Mutex
	notifications map[primitive.ObjectID]*models.Notification
	seq           map[primitive.ObjectID]int64
	next          int64
}

// NewNotificationRepository creates an empty in-memory notification
// repository.
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		notifications: make(map[primitive.ObjectID]*models.Notification),
		seq:           make(map[primitive.ObjectID]int64),
	}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()

	stored := *notification
	r.notifications[notification.ID] = &stored
	r.next++
	r.seq[notification.ID] = r.next
	return nil
}

func (r *NotificationRepository) GetByRecipient(ctx context.Context, recipientID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var notifications []models.Notification
	for _, n := range r.notifications {
		if n.To == recipientID {
			notifications = append(notifications, *n)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		if !notifications[i].CreatedAt.Equal(notifications[j].CreatedAt) {
			return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
		}
		return r.seq[notifications[i].ID] > r.seq[notifications[j].ID]
	})
	if limit > 0 && limit < int64(len(notifications)) {
		notifications = notifications[:limit]
	}
	return notifications, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, n := range r.notifications {
		if n.To == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, recipientID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.To != recipientID {
		return repositories.ErrNotFound
	}
	n.IsRead = true
	return nil
}

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)
