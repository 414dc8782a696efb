package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a local user record synced from the identity provider.
// Followers and Following are denormalized bidirectional edges; a user
// never appears in its own sets.
type User struct {
	ID             primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	FirebaseUID    string               `json:"firebase_uid" bson:"firebase_uid"` // unique index
	Email          string               `json:"email" bson:"email"`
	FirstName      string               `json:"first_name" bson:"first_name"`
	LastName       string               `json:"last_name" bson:"last_name"`
	Username       string               `json:"username" bson:"username"` // unique index, email local-part
	Bio            string               `json:"bio,omitempty" bson:"bio,omitempty"`
	Location       string               `json:"location,omitempty" bson:"location,omitempty"`
	ProfilePicture string               `json:"profile_picture" bson:"profile_picture"`
	BannerImage    string               `json:"banner_image,omitempty" bson:"banner_image,omitempty"`
	Followers      []primitive.ObjectID `json:"followers" bson:"followers"`
	Following      []primitive.ObjectID `json:"following" bson:"following"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
}

// UserSummary is the compact owner view embedded in expanded posts,
// comments and notifications.
type UserSummary struct {
	ID             primitive.ObjectID `json:"id"`
	Username       string             `json:"username"`
	FirstName      string             `json:"first_name"`
	LastName       string             `json:"last_name"`
	ProfilePicture string             `json:"profile_picture"`
}

// Summary returns the compact view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
	}
}

// UpdateProfileRequest defines the request body for a partial profile update.
type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName       *string `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Bio            *string `json:"bio,omitempty" validate:"omitempty,max=160"`
	Location       *string `json:"location,omitempty" validate:"omitempty,max=100"`
	ProfilePicture *string `json:"profile_picture,omitempty" validate:"omitempty,url"`
	BannerImage    *string `json:"banner_image,omitempty" validate:"omitempty,url"`
}
