package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post. Likes is a set of user ids,
// Comments an ordered list of comment ids; both are mutated with atomic
// array updates, never read-modify-write. Content and Image are never
// both empty.
type Post struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID   `json:"user" bson:"user"`
	Content   string               `json:"content" bson:"content"`
	Image     string               `json:"image,omitempty" bson:"image,omitempty"`
	ImageKey  string               `json:"-" bson:"image_key,omitempty"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []primitive.ObjectID `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// ExpandedPost is a post with its owner summary and expanded comments.
type ExpandedPost struct {
	Post
	Owner           UserSummary       `json:"owner"`
	CommentsDetails []ExpandedComment `json:"comments_details"`
}
