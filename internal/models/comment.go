package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post.
type Comment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Post      primitive.ObjectID `json:"post" bson:"post"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// ExpandedComment is a comment with its owner summary.
type ExpandedComment struct {
	Comment
	Owner UserSummary `json:"owner"`
}

// CreateCommentRequest defines the request body for creating a comment.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
