package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification kinds.
const (
	NotificationFollow  = "follow"
	NotificationLike    = "like"
	NotificationComment = "comment"
)

// Notification is an append-only side-effect record of a follow, like or
// comment action. From never equals To; self-actions are suppressed before
// a record is created.
type Notification struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	From      primitive.ObjectID  `json:"from" bson:"from"`
	To        primitive.ObjectID  `json:"to" bson:"to"`
	Type      string              `json:"type" bson:"type"`
	Post      *primitive.ObjectID `json:"post,omitempty" bson:"post,omitempty"`
	Comment   *primitive.ObjectID `json:"comment,omitempty" bson:"comment,omitempty"`
	IsRead    bool                `json:"is_read" bson:"is_read"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
}

// ExpandedNotification includes the actor summary.
type ExpandedNotification struct {
	Notification
	Actor UserSummary `json:"actor"`
}
